package analysis

import (
	"errors"
	"fmt"
)

// Engine errors. Classification and aggregation are total functions over
// messy data; these are returned only for genuinely unusable inputs.
var (
	// ErrInsufficientData indicates fewer valid observations than the
	// operation needs (e.g. a time series with under 2 points).
	ErrInsufficientData = errors.New("insufficient data")

	// ErrTooFewNumericColumns indicates a correlation request over fewer
	// than two numeric columns.
	ErrTooFewNumericColumns = errors.New("at least 2 numeric columns required")
)

// ColumnError describes a caller request against a column that does not
// exist or has the wrong kind for the operation.
type ColumnError struct {
	Column string
	Reason string
}

// Error implements the error interface
func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q: %s", e.Column, e.Reason)
}
