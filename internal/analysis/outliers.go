package analysis

import (
	"devanalytics/internal/dataset"
)

const (
	// iqrMultiplier is the classic Tukey fence factor
	iqrMultiplier = 1.5

	// minValuesForQuartiles is the minimum non-missing count needed to
	// define quartiles meaningfully. Below it a column reports zero
	// outliers, not an error, so the aggregator stays total.
	minValuesForQuartiles = 4
)

// DetectOutliers counts, for every numeric column, the values lying beyond
// 1.5x the interquartile range from the nearest quartile. The returned
// mapping includes zero-count columns; callers filter for display.
func DetectOutliers(ds *dataset.Dataset) map[string]int {
	counts := make(map[string]int)
	for _, name := range ds.NumericColumns() {
		col, _ := ds.Column(name)
		counts[name] = countOutliers(col)
	}
	return counts
}

func countOutliers(col dataset.Column) int {
	var values []float64
	for i := 0; i < col.Len(); i++ {
		if v, ok := col.Float(i); ok {
			values = append(values, v)
		}
	}
	if len(values) < minValuesForQuartiles {
		return 0
	}

	q1 := percentile(values, 0.25)
	q3 := percentile(values, 0.75)
	iqr := q3 - q1
	lower := q1 - iqrMultiplier*iqr
	upper := q3 + iqrMultiplier*iqr

	count := 0
	for _, v := range values {
		if v < lower || v > upper {
			count++
		}
	}
	return count
}
