// Package ingestion materializes Dataset values from CSV and JSON sources.
//
// Loaders hand a finished, typed Dataset to the analysis engine; they never
// stream and never guess date semantics (that is the column classifier's
// job). Cell-level type sniffing only decides between numeric and text
// storage.
package ingestion
