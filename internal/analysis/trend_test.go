package analysis

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devanalytics/internal/dataset"
)

func dailySeries(n int, value func(i int) float64) TimeSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := TimeSeries{DateColumn: "day", MetricColumn: "value"}
	for i := 0; i < n; i++ {
		series.Points = append(series.Points, Point{
			Timestamp: start.AddDate(0, 0, i),
			Value:     value(i),
		})
	}
	return series
}

func TestPrepareTimeSeries(t *testing.T) {
	t.Run("sorts_and_drops_missing", func(t *testing.T) {
		days := []string{"2024-01-03", "2024-01-01", "2024-01-02", "2024-01-04"}
		values := []float64{3, 1, 2, 0}
		null := []bool{false, false, false, true}

		ds := mustDataset(t,
			dataset.NewTextColumn("day", days, nil),
			dataset.NewNumericColumn("value", values, null),
		)

		series, err := PrepareTimeSeries(ds, "day", "value")
		require.NoError(t, err)
		require.Equal(t, 3, series.Len())
		assert.Equal(t, []float64{1, 2, 3}, []float64{
			series.Points[0].Value, series.Points[1].Value, series.Points[2].Value,
		})
		assert.True(t, series.Points[0].Timestamp.Before(series.Points[1].Timestamp))
	})

	t.Run("native_time_column", func(t *testing.T) {
		times := []time.Time{
			time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		ds := mustDataset(t,
			dataset.NewTimeColumn("ts", times, nil),
			dataset.NewNumericColumn("value", []float64{2, 1}, nil),
		)

		series, err := PrepareTimeSeries(ds, "ts", "value")
		require.NoError(t, err)
		assert.Equal(t, 1.0, series.Points[0].Value)
	})

	t.Run("missing_date_column", func(t *testing.T) {
		ds := mustDataset(t, dataset.NewNumericColumn("value", []float64{1, 2}, nil))

		_, err := PrepareTimeSeries(ds, "day", "value")
		var colErr *ColumnError
		require.ErrorAs(t, err, &colErr)
		assert.Equal(t, "day", colErr.Column)
	})

	t.Run("non_numeric_metric", func(t *testing.T) {
		ds := mustDataset(t,
			dataset.NewTextColumn("day", []string{"2024-01-01", "2024-01-02"}, nil),
			dataset.NewTextColumn("label", []string{"a", "b"}, nil),
		)

		_, err := PrepareTimeSeries(ds, "day", "label")
		var colErr *ColumnError
		require.ErrorAs(t, err, &colErr)
		assert.Equal(t, "label", colErr.Column)
	})

	t.Run("non_date_text_column", func(t *testing.T) {
		ds := mustDataset(t,
			dataset.NewTextColumn("word", []string{"alpha", "beta"}, nil),
			dataset.NewNumericColumn("value", []float64{1, 2}, nil),
		)

		_, err := PrepareTimeSeries(ds, "word", "value")
		var colErr *ColumnError
		require.ErrorAs(t, err, &colErr)
	})

	t.Run("too_few_valid_points", func(t *testing.T) {
		ds := mustDataset(t,
			dataset.NewTextColumn("day", []string{"2024-01-01", "2024-01-02"}, nil),
			dataset.NewNumericColumn("value", []float64{1, 0}, []bool{false, true}),
		)

		_, err := PrepareTimeSeries(ds, "day", "value")
		assert.True(t, errors.Is(err, ErrInsufficientData))
	})
}

func TestCalculateTrends(t *testing.T) {
	t.Run("linear_increasing", func(t *testing.T) {
		series := dailySeries(10, func(i int) float64 { return 2 * float64(i) })

		trend := CalculateTrends(series)
		assert.Equal(t, DirectionIncreasing, trend.Direction)
		// Values grow by 2 per day; the fit is over elapsed hours
		assert.InDelta(t, 2.0/24.0, trend.Slope, 1e-9)
		assert.InDelta(t, 1.0, trend.RSquared, 1e-9)
	})

	t.Run("linear_decreasing", func(t *testing.T) {
		series := dailySeries(10, func(i int) float64 { return 100 - 3*float64(i) })

		trend := CalculateTrends(series)
		assert.Equal(t, DirectionDecreasing, trend.Direction)
		assert.InDelta(t, 1.0, trend.RSquared, 1e-9)
	})

	t.Run("constant_is_stable_with_zero_r2", func(t *testing.T) {
		series := dailySeries(10, func(i int) float64 { return 42 })

		trend := CalculateTrends(series)
		assert.Equal(t, DirectionStable, trend.Direction)
		assert.Zero(t, trend.Slope)
		assert.Zero(t, trend.RSquared)
	})

	t.Run("noisy_r2_below_one", func(t *testing.T) {
		series := dailySeries(20, func(i int) float64 {
			noise := float64(i%3) * 5
			return float64(i) + noise
		})

		trend := CalculateTrends(series)
		assert.Equal(t, DirectionIncreasing, trend.Direction)
		assert.Less(t, trend.RSquared, 1.0)
		assert.Greater(t, trend.RSquared, 0.0)
	})

	t.Run("single_timestamp_is_stable", func(t *testing.T) {
		ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		series := TimeSeries{Points: []Point{
			{Timestamp: ts, Value: 1},
			{Timestamp: ts, Value: 100},
		}}

		trend := CalculateTrends(series)
		assert.Equal(t, DirectionStable, trend.Direction)
	})

	t.Run("too_short", func(t *testing.T) {
		series := dailySeries(1, func(i int) float64 { return 1 })
		assert.Equal(t, DirectionStable, CalculateTrends(series).Direction)
	})
}

func TestSeasonalDecomposition(t *testing.T) {
	seasonal := func(i int) float64 {
		return 100 + float64(i)*0.5 + 10*math.Sin(2*math.Pi*float64(i)/12)
	}

	t.Run("short_series_yields_nil", func(t *testing.T) {
		series := dailySeries(24, seasonal)
		assert.Nil(t, SeasonalDecomposition(series, 12))
	})

	t.Run("period_needs_two_cycles", func(t *testing.T) {
		series := dailySeries(30, seasonal)
		assert.Nil(t, SeasonalDecomposition(series, 20))
	})

	t.Run("components_reconstruct_series", func(t *testing.T) {
		series := dailySeries(48, seasonal)

		dec := SeasonalDecomposition(series, 12)
		require.NotNil(t, dec)
		assert.Equal(t, 12, dec.Period)
		require.Len(t, dec.Trend, 48)
		require.Len(t, dec.Seasonal, 48)
		require.Len(t, dec.Residual, 48)

		for i := range dec.Trend {
			sum := dec.Trend[i] + dec.Seasonal[i] + dec.Residual[i]
			assert.InDelta(t, series.Points[i].Value, sum, 1e-9)
		}
	})

	t.Run("seasonal_component_sums_to_zero_over_period", func(t *testing.T) {
		series := dailySeries(48, seasonal)

		dec := SeasonalDecomposition(series, 12)
		require.NotNil(t, dec)

		var total float64
		for _, v := range dec.Seasonal[:12] {
			total += v
		}
		assert.InDelta(t, 0, total, 1e-9)
	})

	t.Run("default_period_applied", func(t *testing.T) {
		series := dailySeries(48, seasonal)

		dec := SeasonalDecomposition(series, 0)
		require.NotNil(t, dec)
		assert.Equal(t, DefaultSeasonalPeriod, dec.Period)
	})

	t.Run("no_nan_in_components", func(t *testing.T) {
		series := dailySeries(25, seasonal)

		dec := SeasonalDecomposition(series, 12)
		require.NotNil(t, dec)
		for i := range dec.Trend {
			assert.False(t, math.IsNaN(dec.Trend[i]))
			assert.False(t, math.IsNaN(dec.Seasonal[i]))
			assert.False(t, math.IsNaN(dec.Residual[i]))
		}
	})
}

func TestDetectDateColumns(t *testing.T) {
	ds := mustDataset(t,
		dataset.NewTextColumn("day", []string{"2024-01-01", "2024-01-02"}, nil),
		dataset.NewNumericColumn("value", []float64{1, 2}, nil),
		dataset.NewTextColumn("label", []string{"a", "b"}, nil),
	)

	assert.Equal(t, []string{"day"}, DetectDateColumns(ds))
}
