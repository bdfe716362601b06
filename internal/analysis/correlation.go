package analysis

import (
	"math"

	"devanalytics/internal/dataset"
)

// CalculateCorrelation computes the pairwise Pearson correlation matrix
// over the given numeric columns. An empty cols selects all numeric columns
// in original order. The diagonal is forced to 1.0 and the matrix is
// symmetric by construction: the upper triangle is computed and mirrored.
// Pairs with fewer than 2 overlapping non-missing rows, or with zero
// variance, are marked not computable rather than zero.
func CalculateCorrelation(ds *dataset.Dataset, cols []string) (CorrelationMatrix, error) {
	if len(cols) == 0 {
		cols = ds.NumericColumns()
	}
	if len(cols) < 2 {
		return CorrelationMatrix{}, ErrTooFewNumericColumns
	}

	columns := make([]dataset.Column, len(cols))
	for i, name := range cols {
		col, ok := ds.Column(name)
		if !ok {
			return CorrelationMatrix{}, &ColumnError{Column: name, Reason: "not found"}
		}
		if col.Type() != dataset.TypeNumeric {
			return CorrelationMatrix{}, &ColumnError{Column: name, Reason: "not a numeric column"}
		}
		columns[i] = col
	}

	matrix := CorrelationMatrix{
		Columns:      cols,
		Coefficients: make([][]Coefficient, len(cols)),
	}
	for i := range matrix.Coefficients {
		matrix.Coefficients[i] = make([]Coefficient, len(cols))
		matrix.Coefficients[i][i] = Coefficient{Value: 1.0, Computable: true}
	}

	for i := 0; i < len(columns); i++ {
		for j := i + 1; j < len(columns); j++ {
			coeff := pairwiseCorrelation(columns[i], columns[j], ds.Len())
			matrix.Coefficients[i][j] = coeff
			matrix.Coefficients[j][i] = coeff
		}
	}

	return matrix, nil
}

// pairwiseCorrelation computes Pearson correlation over rows where both
// columns have non-missing values.
func pairwiseCorrelation(a, b dataset.Column, rows int) Coefficient {
	var xs, ys []float64
	for i := 0; i < rows; i++ {
		x, ok := a.Float(i)
		if !ok {
			continue
		}
		y, ok := b.Float(i)
		if !ok {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}

	if len(xs) < 2 {
		return Coefficient{}
	}

	r, ok := pearson(xs, ys)
	if !ok {
		return Coefficient{}
	}
	return Coefficient{Value: clamp(r, -1, 1), Computable: true}
}

// pearson computes the Pearson correlation coefficient. The second return
// is false when either input has zero variance.
func pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
		sumYY += ys[i] * ys[i]
	}

	denom := math.Sqrt(n*sumXX-sumX*sumX) * math.Sqrt(n*sumYY-sumY*sumY)
	if denom == 0 {
		return 0, false
	}
	return (n*sumXY - sumX*sumY) / denom, true
}

// Describe computes distribution statistics for one numeric column,
// ignoring missing values. A column with no usable values yields a
// Distribution with Count 0.
func Describe(ds *dataset.Dataset, name string) (Distribution, error) {
	col, ok := ds.Column(name)
	if !ok {
		return Distribution{}, &ColumnError{Column: name, Reason: "not found"}
	}
	if col.Type() != dataset.TypeNumeric {
		return Distribution{}, &ColumnError{Column: name, Reason: "not a numeric column"}
	}

	var values []float64
	for i := 0; i < col.Len(); i++ {
		if v, ok := col.Float(i); ok {
			values = append(values, v)
		}
	}

	dist := Distribution{Column: name, Count: len(values)}
	if len(values) == 0 {
		return dist, nil
	}

	dist.Mean = mean(values)
	dist.Std = stdDev(values)
	dist.Min = percentile(values, 0)
	dist.Q1 = percentile(values, 0.25)
	dist.Median = percentile(values, 0.5)
	dist.Q3 = percentile(values, 0.75)
	dist.Max = percentile(values, 1)
	return dist, nil
}
