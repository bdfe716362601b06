package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devanalytics/internal/analysis"
	"devanalytics/internal/dataset"
	"devanalytics/internal/exporter"
)

func newTestService(t *testing.T) *DataService {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDataService(logger)
}

func serviceFixture(t *testing.T) *dataset.Dataset {
	t.Helper()

	n := 30
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	days := make([]string, n)
	amount := make([]float64, n)
	doubled := make([]float64, n)
	for i := 0; i < n; i++ {
		days[i] = start.AddDate(0, 0, i).Format("2006-01-02")
		amount[i] = float64(i + 1)
		doubled[i] = 2 * float64(i+1)
	}

	ds, err := dataset.New(
		dataset.NewTextColumn("day", days, nil),
		dataset.NewNumericColumn("amount", amount, nil),
		dataset.NewNumericColumn("doubled", doubled, nil),
	)
	require.NoError(t, err)
	return ds
}

func TestDataServiceStoreAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first := svc.Store(ctx, "first", serviceFixture(t))
	second := svc.Store(ctx, "second", serviceFixture(t))

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 30, first.Rows)
	assert.Equal(t, 3, first.Columns)

	metas := svc.List(ctx)
	require.Len(t, metas, 2)
	// Newest first
	assert.False(t, metas[0].CreatedAt.Before(metas[1].CreatedAt))
}

func TestDataServiceDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	meta := svc.Store(ctx, "victim", serviceFixture(t))

	require.NoError(t, svc.Delete(ctx, meta.ID))
	assert.Empty(t, svc.List(ctx))

	err := svc.Delete(ctx, meta.ID)
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestDataServiceSummary(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	meta := svc.Store(ctx, "sales", serviceFixture(t))

	summary, err := svc.Summary(ctx, meta.ID)
	require.NoError(t, err)
	assert.Equal(t, meta.ID, summary.Meta.ID)
	assert.Len(t, summary.Profiles, 3)
	assert.Equal(t, []string{"day"}, summary.DateColumns)
	assert.Equal(t, []string{"amount", "doubled"}, summary.NumericColumns)

	_, err = svc.Summary(ctx, "missing-id")
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestDataServiceQuery(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	meta := svc.Store(ctx, "sales", serviceFixture(t))

	t.Run("column_selection_and_limit", func(t *testing.T) {
		result, err := svc.Query(ctx, meta.ID, []string{"amount"}, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"amount"}, result.Columns)
		assert.Equal(t, 5, result.Count)
		require.Len(t, result.Rows, 5)
		assert.Equal(t, 1.0, result.Rows[0]["amount"])
	})

	t.Run("all_columns_no_limit", func(t *testing.T) {
		result, err := svc.Query(ctx, meta.ID, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, 30, result.Count)
		assert.Len(t, result.Rows[0], 3)
	})

	t.Run("unknown_column", func(t *testing.T) {
		_, err := svc.Query(ctx, meta.ID, []string{"nope"}, 0)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestDataServiceInsights(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	meta := svc.Store(ctx, "sales", serviceFixture(t))

	t.Run("without_trend_pair", func(t *testing.T) {
		report, err := svc.Insights(ctx, meta.ID, "", "")
		require.NoError(t, err)
		assert.Equal(t, 30, report.BasicStats.TotalRecords)
		assert.Empty(t, report.TrendInsights)
	})

	t.Run("with_trend_pair", func(t *testing.T) {
		report, err := svc.Insights(ctx, meta.ID, "day", "amount")
		require.NoError(t, err)
		require.Len(t, report.TrendInsights, 1)
		assert.Contains(t, report.TrendInsights[0], "increasing")
	})

	t.Run("bad_trend_pair", func(t *testing.T) {
		_, err := svc.Insights(ctx, meta.ID, "day", "nope")
		require.Error(t, err)
	})
}

func TestDataServiceTrends(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	meta := svc.Store(ctx, "sales", serviceFixture(t))

	t.Run("fit_without_decomposition", func(t *testing.T) {
		result, err := svc.Trends(ctx, meta.ID, TrendRequest{
			DateColumn:   "day",
			MetricColumn: "amount",
		})
		require.NoError(t, err)
		assert.Equal(t, analysis.DirectionIncreasing, result.Trend.Direction)
		assert.Nil(t, result.Trend.Decomposition)
		assert.Equal(t, 30, result.Series.Len())
	})

	t.Run("decomposition_attached_when_long_enough", func(t *testing.T) {
		result, err := svc.Trends(ctx, meta.ID, TrendRequest{
			DateColumn:   "day",
			MetricColumn: "amount",
			Decompose:    true,
			Period:       12,
		})
		require.NoError(t, err)
		require.NotNil(t, result.Trend.Decomposition)
		assert.Equal(t, 12, result.Trend.Decomposition.Period)
	})

	t.Run("decomposition_omitted_for_short_series", func(t *testing.T) {
		result, err := svc.Trends(ctx, meta.ID, TrendRequest{
			DateColumn:   "day",
			MetricColumn: "amount",
			Decompose:    true,
			Period:       20,
		})
		require.NoError(t, err)
		assert.Nil(t, result.Trend.Decomposition)
	})
}

func TestDataServiceCorrelation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	meta := svc.Store(ctx, "sales", serviceFixture(t))

	matrix, err := svc.Correlation(ctx, meta.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"amount", "doubled"}, matrix.Columns)
	assert.InDelta(t, 1.0, matrix.At(0, 1).Value, 1e-9)
}

func TestDataServiceExport(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	meta := svc.Store(ctx, "sales", serviceFixture(t))

	tests := []struct {
		format      string
		contentType string
		filename    string
	}{
		{format: "csv", contentType: "text/csv", filename: "sales.csv"},
		{format: "json", contentType: "application/json", filename: "sales.json"},
		{format: "xlsx", contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename: "sales.xlsx"},
		{format: "insights", contentType: "text/csv", filename: "sales_insights.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, contentType, filename, err := svc.Export(ctx, meta.ID, tt.format, exporter.Options{})
			require.NoError(t, err)
			assert.NotEmpty(t, data)
			assert.Equal(t, tt.contentType, contentType)
			assert.Equal(t, tt.filename, filename)
		})
	}

	t.Run("unknown_format", func(t *testing.T) {
		_, _, _, err := svc.Export(ctx, meta.ID, "pdf", exporter.Options{})
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})
}
