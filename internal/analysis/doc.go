// Package analysis implements the statistics and insight-generation engine
// that turns an in-memory tabular dataset into trend metrics, correlation
// and distribution statistics, and a structured automated-insight report.
//
// The package contains five cooperating components:
//
// Column Classifier: infers semantic column kinds (date, numeric,
// categorical, text) from raw values, with confidence-thresholded date
// detection that falls back to text rather than coercing.
//
// Trend Engine: builds a time-ordered series for a (date, metric) pair and
// computes least-squares trend statistics plus optional additive seasonal
// decomposition with a fixed assumed period.
//
// Correlation Engine: pairwise Pearson correlation over numeric columns
// with explicit not-computable markers, plus per-column distribution
// statistics.
//
// Outlier Detector: IQR-based outlier counts per numeric column.
//
// Insight Aggregator: composes the above with data-quality checks into one
// InsightReport value.
//
// Every function is a pure function of its inputs: the dataset is owned by
// the caller and never mutated, there is no hidden state, and concurrent
// invocations over distinct dataset snapshots need no locking.
package analysis
