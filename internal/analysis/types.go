package analysis

import (
	"time"
)

// ColumnKind is the inferred semantic kind of a column
type ColumnKind string

const (
	// KindDate marks temporal columns, native or parsed from text
	KindDate ColumnKind = "date"
	// KindNumeric marks columns with numeric storage
	KindNumeric ColumnKind = "numeric"
	// KindCategorical marks low-cardinality text columns
	KindCategorical ColumnKind = "categorical"
	// KindText marks free-text columns
	KindText ColumnKind = "text"
)

// ColumnProfile describes the inferred kind and summary counts of one
// column. Profiles are derived per analysis call, never persisted.
type ColumnProfile struct {
	Name         string     `json:"name"`
	Kind         ColumnKind `json:"kind"`
	Cardinality  int        `json:"cardinality"`
	MissingCount int        `json:"missing_count"`
}

// Point is a single (timestamp, value) observation
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// TimeSeries is an ordered sequence of observations derived from a date
// column and a numeric column. Timestamps are non-decreasing after
// preparation; duplicates are kept (aggregation is the caller's choice).
type TimeSeries struct {
	DateColumn   string  `json:"date_column"`
	MetricColumn string  `json:"metric_column"`
	Points       []Point `json:"points"`
}

// Len returns the number of observations
func (s TimeSeries) Len() int { return len(s.Points) }

// Trend directions
const (
	DirectionIncreasing = "increasing"
	DirectionDecreasing = "decreasing"
	DirectionStable     = "stable"
)

// TrendResult holds the linear-trend statistics of a time series, plus an
// optional seasonal decomposition when one was computed.
type TrendResult struct {
	Direction     string         `json:"direction"`
	Slope         float64        `json:"slope"`
	RSquared      float64        `json:"r_squared"`
	Decomposition *Decomposition `json:"decomposition,omitempty"`
}

// Decomposition holds additive trend, seasonal and residual components for
// a time series. All three slices have the same length as the source series.
type Decomposition struct {
	Period   int       `json:"period"`
	Trend    []float64 `json:"trend"`
	Seasonal []float64 `json:"seasonal"`
	Residual []float64 `json:"residual"`
}

// Coefficient is one cell of a correlation matrix. Computable is false when
// the pair lacks overlapping data or has zero variance; Value is meaningless
// in that case and must not be read as zero.
type Coefficient struct {
	Value      float64 `json:"value"`
	Computable bool    `json:"computable"`
}

// CorrelationMatrix is a symmetric square matrix of pairwise Pearson
// coefficients. The diagonal is always 1.0.
type CorrelationMatrix struct {
	Columns      []string        `json:"columns"`
	Coefficients [][]Coefficient `json:"coefficients"`
}

// At returns the coefficient for the column pair (i, j)
func (m CorrelationMatrix) At(i, j int) Coefficient {
	return m.Coefficients[i][j]
}

// Distribution holds basic distribution statistics for one numeric column,
// computed over non-missing values only.
type Distribution struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// BasicStats summarizes the shape of the dataset
type BasicStats struct {
	TotalRecords       int `json:"total_records"`
	NumericColumns     int `json:"numeric_columns"`
	CategoricalColumns int `json:"categorical_columns"`
}

// QualityInsights reports data-quality findings. MissingData only lists
// columns with at least one missing value. Duplicates counts occurrences
// beyond the first of each identical full row.
type QualityInsights struct {
	MissingData map[string]int `json:"missing_data"`
	Duplicates  int            `json:"duplicates"`
}

// InsightReport is the structured automated-insight report. It is built
// fresh on each invocation and never mutated afterward. The JSON keys form
// a stable contract consumed by presentation layers verbatim.
type InsightReport struct {
	BasicStats          BasicStats      `json:"basic_stats"`
	QualityInsights     QualityInsights `json:"quality_insights"`
	StatisticalInsights []string        `json:"statistical_insights"`
	CorrelationInsights []string        `json:"correlation_insights"`
	TrendInsights       []string        `json:"trend_insights"`
	OutlierInsights     map[string]int  `json:"outlier_insights"`
}
