package analysis

import (
	"fmt"
	"math"

	"devanalytics/internal/dataset"
)

const (
	// StrongCorrelationThreshold is the minimum |r| for a pair to surface
	// as a correlation insight.
	StrongCorrelationThreshold = 0.7

	// highVarianceCV is the coefficient-of-variation threshold above which
	// a column is flagged as high variance.
	highVarianceCV = 1.0

	// strongSkewThreshold is the |skewness| threshold for a skew finding
	strongSkewThreshold = 1.0
)

// GenerateInsights composes the full automated-insight report for a
// dataset. It is deterministic and idempotent: calling twice on an
// unchanged dataset produces an identical report. Trend insights stay empty
// because no date/metric pair is auto-picked; callers that have selected a
// pair use GenerateInsightsWithTrend.
func GenerateInsights(ds *dataset.Dataset) *InsightReport {
	profiles := Classify(ds)

	report := &InsightReport{
		BasicStats:          basicStats(ds, profiles),
		QualityInsights:     qualityInsights(ds),
		StatisticalInsights: statisticalInsights(ds, profiles),
		CorrelationInsights: correlationInsights(ds),
		TrendInsights:       []string{},
		OutlierInsights:     DetectOutliers(ds),
	}
	return report
}

// GenerateInsightsWithTrend is GenerateInsights plus trend findings for a
// caller-selected date/metric pair. Unlike the rest of the report, a bad
// pair is a caller error and is surfaced, not swallowed.
func GenerateInsightsWithTrend(ds *dataset.Dataset, dateCol, metricCol string) (*InsightReport, error) {
	report := GenerateInsights(ds)

	series, err := PrepareTimeSeries(ds, dateCol, metricCol)
	if err != nil {
		return nil, fmt.Errorf("trend insights: %w", err)
	}
	trend := CalculateTrends(series)

	report.TrendInsights = append(report.TrendInsights, fmt.Sprintf(
		"%s shows a %s trend over %s (slope %.4f, R²=%.3f across %d observations)",
		metricCol, trend.Direction, dateCol, trend.Slope, trend.RSquared, series.Len()))

	return report, nil
}

func basicStats(ds *dataset.Dataset, profiles []ColumnProfile) BasicStats {
	stats := BasicStats{TotalRecords: ds.Len()}
	for _, p := range profiles {
		switch p.Kind {
		case KindNumeric:
			stats.NumericColumns++
		case KindCategorical:
			stats.CategoricalColumns++
		}
	}
	return stats
}

func qualityInsights(ds *dataset.Dataset) QualityInsights {
	quality := QualityInsights{MissingData: make(map[string]int)}

	for _, name := range ds.Columns() {
		col, _ := ds.Column(name)
		if missing := col.MissingCount(); missing > 0 {
			quality.MissingData[name] = missing
		}
	}

	// Occurrences beyond the first of each identical full row
	seen := make(map[string]struct{}, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		key := ds.RowKey(i)
		if _, dup := seen[key]; dup {
			quality.Duplicates++
		} else {
			seen[key] = struct{}{}
		}
	}
	return quality
}

// statisticalInsights derives threshold-based findings from per-column
// distribution statistics, in column order so output is deterministic.
func statisticalInsights(ds *dataset.Dataset, profiles []ColumnProfile) []string {
	findings := []string{}
	for _, p := range profiles {
		if p.Kind != KindNumeric {
			continue
		}
		dist, err := Describe(ds, p.Name)
		if err != nil || dist.Count < 2 {
			continue
		}

		if dist.Mean != 0 {
			cv := dist.Std / math.Abs(dist.Mean)
			if cv > highVarianceCV {
				findings = append(findings, fmt.Sprintf(
					"%s has high variance (coefficient of variation %.2f)", p.Name, cv))
			}
		}

		col, _ := ds.Column(p.Name)
		if skew := columnSkewness(col); math.Abs(skew) > strongSkewThreshold {
			direction := "right"
			if skew < 0 {
				direction = "left"
			}
			findings = append(findings, fmt.Sprintf(
				"%s is strongly %s-skewed (skewness %.2f)", p.Name, direction, skew))
		}
	}
	return findings
}

func columnSkewness(col dataset.Column) float64 {
	var values []float64
	for i := 0; i < col.Len(); i++ {
		if v, ok := col.Float(i); ok {
			values = append(values, v)
		}
	}
	return skewness(values)
}

// correlationInsights surfaces pairs whose absolute coefficient meets the
// strong-correlation threshold, excluding the diagonal and pairs that were
// not computable.
func correlationInsights(ds *dataset.Dataset) []string {
	findings := []string{}

	matrix, err := CalculateCorrelation(ds, nil)
	if err != nil {
		// Fewer than 2 numeric columns is ordinary data, not a failure
		return findings
	}

	for i := 0; i < len(matrix.Columns); i++ {
		for j := i + 1; j < len(matrix.Columns); j++ {
			coeff := matrix.At(i, j)
			if !coeff.Computable || math.Abs(coeff.Value) < StrongCorrelationThreshold {
				continue
			}
			kind := "positive"
			if coeff.Value < 0 {
				kind = "negative"
			}
			findings = append(findings, fmt.Sprintf(
				"Strong %s correlation between %s and %s (r=%.2f)",
				kind, matrix.Columns[i], matrix.Columns[j], coeff.Value))
		}
	}
	return findings
}
