package analysis

import (
	"time"

	"devanalytics/internal/dataset"
)

const (
	// CategoricalCutoff is the maximum distinct-value count for a
	// non-numeric, non-date column to be considered categorical.
	CategoricalCutoff = 50

	// dateConfidence is the fraction of sampled values that must parse
	// against a single layout for a text column to classify as date.
	dateConfidence = 0.8

	// dateSampleSize caps how many non-null values are sampled for date
	// detection.
	dateSampleSize = 100
)

// dateLayouts are attempted in priority order; the first layout that parses
// the sampled values above the confidence threshold wins.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
	"01-02-2006",
}

// Classify infers a ColumnProfile for every column of the dataset, in
// original column order. It is a pure function of the dataset snapshot and
// never raises for messy data: columns that cannot be confidently
// classified as date fall back to text, never silently coerced.
func Classify(ds *dataset.Dataset) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, ds.NumColumns())
	for _, name := range ds.Columns() {
		col, _ := ds.Column(name)
		profiles = append(profiles, profileColumn(col))
	}
	return profiles
}

func profileColumn(col dataset.Column) ColumnProfile {
	profile := ColumnProfile{
		Name:         col.Name(),
		MissingCount: col.MissingCount(),
		Cardinality:  cardinality(col),
	}

	switch col.Type() {
	case dataset.TypeNumeric:
		profile.Kind = KindNumeric
	case dataset.TypeTime:
		profile.Kind = KindDate
	default:
		if _, ok := detectDateLayout(col); ok {
			profile.Kind = KindDate
		} else if profile.Cardinality <= CategoricalCutoff {
			profile.Kind = KindCategorical
		} else {
			profile.Kind = KindText
		}
	}
	return profile
}

// cardinality counts distinct non-missing values
func cardinality(col dataset.Column) int {
	distinct := make(map[string]struct{})
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		distinct[col.Render(i)] = struct{}{}
	}
	return len(distinct)
}

// detectDateLayout samples non-null values of a text column and returns the
// first layout that parses at least dateConfidence of them. The second
// return is false when no layout reaches the threshold.
func detectDateLayout(col dataset.Column) (string, bool) {
	if col.Type() != dataset.TypeText {
		return "", false
	}

	var sample []string
	for i := 0; i < col.Len() && len(sample) < dateSampleSize; i++ {
		if v, ok := col.String(i); ok && v != "" {
			sample = append(sample, v)
		}
	}
	if len(sample) == 0 {
		return "", false
	}

	for _, layout := range dateLayouts {
		parsed := 0
		for _, v := range sample {
			if _, err := time.Parse(layout, v); err == nil {
				parsed++
			}
		}
		if float64(parsed)/float64(len(sample)) >= dateConfidence {
			return layout, true
		}
	}
	return "", false
}
