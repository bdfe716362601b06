package analysis

import (
	"fmt"
	"sort"
	"time"

	"devanalytics/internal/dataset"
)

const (
	// slopeEpsilon separates a genuinely sloped fit from a flat one
	slopeEpsilon = 1e-9

	// MinDecompositionPoints is the minimum series length above which
	// seasonal decomposition is attempted. At or below it there are too
	// few periods to estimate seasonality reliably.
	MinDecompositionPoints = 24

	// DefaultSeasonalPeriod is the fixed assumed period for decomposition.
	// Period auto-detection is intentionally not attempted.
	DefaultSeasonalPeriod = 12
)

// DetectDateColumns returns the names of columns classified as date, in
// original column order.
func DetectDateColumns(ds *dataset.Dataset) []string {
	var names []string
	for _, profile := range Classify(ds) {
		if profile.Kind == KindDate {
			names = append(names, profile.Name)
		}
	}
	return names
}

// PrepareTimeSeries builds a time-ordered series from a date column and a
// numeric metric column. Rows where either field is missing are dropped and
// the result is sorted ascending by timestamp (stable, duplicates kept).
// Returns ErrInsufficientData when fewer than 2 valid rows remain.
func PrepareTimeSeries(ds *dataset.Dataset, dateCol, metricCol string) (TimeSeries, error) {
	series := TimeSeries{DateColumn: dateCol, MetricColumn: metricCol}

	date, ok := ds.Column(dateCol)
	if !ok {
		return series, &ColumnError{Column: dateCol, Reason: "not found"}
	}
	metric, ok := ds.Column(metricCol)
	if !ok {
		return series, &ColumnError{Column: metricCol, Reason: "not found"}
	}
	if metric.Type() != dataset.TypeNumeric {
		return series, &ColumnError{Column: metricCol, Reason: "not a numeric column"}
	}

	timestampAt, err := timestampAccessor(date)
	if err != nil {
		return series, err
	}

	for i := 0; i < ds.Len(); i++ {
		ts, ok := timestampAt(i)
		if !ok {
			continue
		}
		value, ok := metric.Float(i)
		if !ok {
			continue
		}
		series.Points = append(series.Points, Point{Timestamp: ts, Value: value})
	}

	if len(series.Points) < 2 {
		return series, fmt.Errorf("time series %s/%s has %d valid points: %w",
			dateCol, metricCol, len(series.Points), ErrInsufficientData)
	}

	sort.SliceStable(series.Points, func(i, j int) bool {
		return series.Points[i].Timestamp.Before(series.Points[j].Timestamp)
	})

	return series, nil
}

// timestampAccessor returns a row-indexed timestamp lookup for a native
// time column or a text column with a detectable date layout.
func timestampAccessor(col dataset.Column) (func(int) (time.Time, bool), error) {
	switch col.Type() {
	case dataset.TypeTime:
		return col.Time, nil
	case dataset.TypeText:
		layout, ok := detectDateLayout(col)
		if !ok {
			return nil, &ColumnError{Column: col.Name(), Reason: "not a date column"}
		}
		return func(i int) (time.Time, bool) {
			raw, ok := col.String(i)
			if !ok {
				return time.Time{}, false
			}
			ts, err := time.Parse(layout, raw)
			if err != nil {
				return time.Time{}, false
			}
			return ts, true
		}, nil
	default:
		return nil, &ColumnError{Column: col.Name(), Reason: "not a date column"}
	}
}

// CalculateTrends fits an ordinary least-squares regression of value
// against elapsed hours from the first observation and reports direction,
// slope and the coefficient of determination clamped to [0,1].
func CalculateTrends(series TimeSeries) TrendResult {
	n := len(series.Points)
	if n < 2 {
		return TrendResult{Direction: DirectionStable}
	}

	start := series.Points[0].Timestamp
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range series.Points {
		xs[i] = p.Timestamp.Sub(start).Hours()
		ys[i] = p.Value
	}

	slope, intercept, ok := leastSquares(xs, ys)
	if !ok {
		return TrendResult{Direction: DirectionStable}
	}

	result := TrendResult{
		Slope:    slope,
		RSquared: clamp(rSquared(xs, ys, slope, intercept), 0, 1),
	}
	switch {
	case slope > slopeEpsilon:
		result.Direction = DirectionIncreasing
	case slope < -slopeEpsilon:
		result.Direction = DirectionDecreasing
	default:
		result.Direction = DirectionStable
	}
	return result
}

// leastSquares fits y = slope*x + intercept. The third return is false when
// x has zero variance (all observations at the same timestamp).
func leastSquares(xs, ys []float64) (slope, intercept float64, ok bool) {
	n := float64(len(xs))
	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0, false
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept, true
}

// rSquared computes the coefficient of determination of the fit. A series
// with zero total variance yields 0, not 1: a flat fit of a flat series
// explains no variance.
func rSquared(xs, ys []float64, slope, intercept float64) float64 {
	meanY := mean(ys)
	var ssRes, ssTot float64
	for i := range xs {
		predicted := slope*xs[i] + intercept
		ssRes += (ys[i] - predicted) * (ys[i] - predicted)
		ssTot += (ys[i] - meanY) * (ys[i] - meanY)
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// SeasonalDecomposition splits a series into additive trend, seasonal and
// residual components using a fixed assumed period. A non-positive period
// selects DefaultSeasonalPeriod. Returns nil, not an error, when the series
// is too short: no result is a distinct outcome from failure.
func SeasonalDecomposition(series TimeSeries, period int) *Decomposition {
	if period <= 0 {
		period = DefaultSeasonalPeriod
	}
	n := len(series.Points)
	if n <= MinDecompositionPoints || n < 2*period {
		return nil
	}

	values := make([]float64, n)
	for i, p := range series.Points {
		values[i] = p.Value
	}

	trend := centeredMovingAverage(values, period)
	detrended := make([]float64, n)
	for i := range values {
		detrended[i] = values[i] - trend[i]
	}

	seasonal := seasonalIndexes(detrended, period)
	residual := make([]float64, n)
	for i := range values {
		residual[i] = values[i] - trend[i] - seasonal[i]
	}

	return &Decomposition{
		Period:   period,
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
	}
}

// centeredMovingAverage smooths the series with a window of one period.
// Even periods use the standard 2x(period) weighted average. Edge positions
// where the window does not fit take the nearest interior estimate.
func centeredMovingAverage(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	half := period / 2

	first, last := -1, -1
	for i := half; i < n-half; i++ {
		var sum float64
		if period%2 == 0 {
			// Weighted window: half weight on the two outermost points
			sum = 0.5*values[i-half] + 0.5*values[i+half]
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
			trend[i] = sum / float64(period)
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
			trend[i] = sum / float64(period)
		}
		if first == -1 {
			first = i
		}
		last = i
	}

	for i := 0; i < first; i++ {
		trend[i] = trend[first]
	}
	for i := last + 1; i < n; i++ {
		trend[i] = trend[last]
	}
	return trend
}

// seasonalIndexes averages the detrended values at each phase of the period
// and centers the result so the seasonal component sums to zero over one
// period.
func seasonalIndexes(detrended []float64, period int) []float64 {
	sums := make([]float64, period)
	counts := make([]int, period)
	for i, v := range detrended {
		phase := i % period
		sums[phase] += v
		counts[phase]++
	}

	indexes := make([]float64, period)
	var total float64
	for p := 0; p < period; p++ {
		if counts[p] > 0 {
			indexes[p] = sums[p] / float64(counts[p])
		}
		total += indexes[p]
	}
	offset := total / float64(period)
	for p := range indexes {
		indexes[p] -= offset
	}

	seasonal := make([]float64, len(detrended))
	for i := range detrended {
		seasonal[i] = indexes[i%period]
	}
	return seasonal
}
