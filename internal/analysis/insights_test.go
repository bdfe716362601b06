package analysis

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devanalytics/internal/dataset"
)

func insightsFixture(t *testing.T) *dataset.Dataset {
	t.Helper()

	n := 30
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	days := make([]string, n)
	amount := make([]float64, n)
	doubled := make([]float64, n)
	category := make([]string, n)
	for i := 0; i < n; i++ {
		days[i] = start.AddDate(0, 0, i).Format("2006-01-02")
		amount[i] = float64(i + 1)
		doubled[i] = 2 * float64(i+1)
		category[i] = []string{"a", "b"}[i%2]
	}

	return mustDataset(t,
		dataset.NewTextColumn("day", days, nil),
		dataset.NewNumericColumn("amount", amount, nil),
		dataset.NewNumericColumn("doubled", doubled, nil),
		dataset.NewTextColumn("category", category, nil),
	)
}

func TestGenerateInsights(t *testing.T) {
	ds := insightsFixture(t)

	report := GenerateInsights(ds)

	t.Run("basic_stats", func(t *testing.T) {
		assert.Equal(t, 30, report.BasicStats.TotalRecords)
		assert.Equal(t, 2, report.BasicStats.NumericColumns)
		assert.Equal(t, 1, report.BasicStats.CategoricalColumns)
	})

	t.Run("quality_clean_dataset", func(t *testing.T) {
		assert.Empty(t, report.QualityInsights.MissingData)
		assert.Zero(t, report.QualityInsights.Duplicates)
	})

	t.Run("strong_correlation_surfaced", func(t *testing.T) {
		require.Len(t, report.CorrelationInsights, 1)
		assert.Contains(t, report.CorrelationInsights[0], "Strong positive correlation")
		assert.Contains(t, report.CorrelationInsights[0], "amount")
		assert.Contains(t, report.CorrelationInsights[0], "doubled")
	})

	t.Run("trend_insights_empty_without_pair", func(t *testing.T) {
		assert.NotNil(t, report.TrendInsights)
		assert.Empty(t, report.TrendInsights)
	})

	t.Run("outliers_cover_numeric_columns", func(t *testing.T) {
		assert.Len(t, report.OutlierInsights, 2)
	})

	t.Run("idempotent", func(t *testing.T) {
		again := GenerateInsights(ds)
		assert.Equal(t, report, again)
	})
}

func TestGenerateInsightsQuality(t *testing.T) {
	t.Run("missing_data_reported", func(t *testing.T) {
		ds := mustDataset(t,
			dataset.NewNumericColumn("a", []float64{1, 0, 3}, []bool{false, true, false}),
			dataset.NewTextColumn("b", []string{"x", "y", "z"}, nil),
		)

		report := GenerateInsights(ds)
		assert.Equal(t, map[string]int{"a": 1}, report.QualityInsights.MissingData)
	})

	t.Run("duplicates_count_beyond_first", func(t *testing.T) {
		ds := mustDataset(t,
			dataset.NewNumericColumn("a", []float64{1, 2, 1, 1}, nil),
			dataset.NewTextColumn("b", []string{"x", "y", "x", "x"}, nil),
		)

		report := GenerateInsights(ds)
		assert.Equal(t, 2, report.QualityInsights.Duplicates)
	})

	t.Run("missing_position_distinguishes_rows", func(t *testing.T) {
		ds := mustDataset(t,
			dataset.NewTextColumn("a", []string{"", "x"}, []bool{true, false}),
			dataset.NewTextColumn("b", []string{"x", ""}, []bool{false, true}),
		)

		report := GenerateInsights(ds)
		assert.Zero(t, report.QualityInsights.Duplicates)
	})
}

func TestGenerateInsightsStatistical(t *testing.T) {
	t.Run("high_variance_flagged", func(t *testing.T) {
		ds := mustDataset(t, dataset.NewNumericColumn("spread",
			[]float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 200}, nil))

		report := GenerateInsights(ds)
		require.NotEmpty(t, report.StatisticalInsights)
		assert.Contains(t, report.StatisticalInsights[0], "high variance")
	})

	t.Run("skew_flagged_with_direction", func(t *testing.T) {
		ds := mustDataset(t, dataset.NewNumericColumn("tail",
			[]float64{1, 1, 2, 2, 2, 3, 3, 1000}, nil))

		report := GenerateInsights(ds)

		var found bool
		for _, finding := range report.StatisticalInsights {
			if strings.Contains(finding, "right-skewed") {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("well_behaved_column_no_findings", func(t *testing.T) {
		ds := mustDataset(t, dataset.NewNumericColumn("calm",
			[]float64{10, 11, 12, 13, 14}, nil))

		report := GenerateInsights(ds)
		assert.Empty(t, report.StatisticalInsights)
	})
}

func TestGenerateInsightsWithTrend(t *testing.T) {
	ds := insightsFixture(t)

	t.Run("trend_finding_added", func(t *testing.T) {
		report, err := GenerateInsightsWithTrend(ds, "day", "amount")
		require.NoError(t, err)
		require.Len(t, report.TrendInsights, 1)
		assert.Contains(t, report.TrendInsights[0], "amount")
		assert.Contains(t, report.TrendInsights[0], "increasing")
	})

	t.Run("bad_pair_is_an_error", func(t *testing.T) {
		_, err := GenerateInsightsWithTrend(ds, "category", "amount")
		require.Error(t, err)

		var colErr *ColumnError
		assert.ErrorAs(t, err, &colErr)
	})
}

func TestInsightReportJSONKeys(t *testing.T) {
	ds := insightsFixture(t)

	data, err := json.Marshal(GenerateInsights(ds))
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	for _, key := range []string{
		"basic_stats",
		"quality_insights",
		"statistical_insights",
		"correlation_insights",
		"trend_insights",
		"outlier_insights",
	} {
		assert.Contains(t, decoded, key)
	}
}
