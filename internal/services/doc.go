// Package services contains the application service layer between the HTTP
// transport and the analysis engine.
//
// DataService owns the only mutable state in the system: an in-memory,
// uuid-keyed store of dataset snapshots. Every analysis call passes an
// explicit snapshot into the pure engine and returns a value object, so a
// stored dataset is never mutated after upload.
package services
