package ingestion

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"devanalytics/internal/dataset"
)

// LoadJSON reads a JSON array of flat objects into a Dataset. Columns are
// ordered by first appearance across records. A missing key or JSON null
// becomes a missing value. Columns whose present values are all numbers get
// numeric storage; mixed or string-valued columns become text.
func LoadJSON(r io.Reader) (*dataset.Dataset, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var records []map[string]any
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty json document")
	}

	names := collectColumnNames(records)

	columns := make([]dataset.Column, 0, len(names))
	for _, name := range names {
		columns = append(columns, buildJSONColumn(name, records))
	}

	return dataset.New(columns...)
}

// collectColumnNames returns the union of keys: the first record's keys
// (sorted, since Go maps have no stable order), then later-introduced keys
// sorted after them.
func collectColumnNames(records []map[string]any) []string {
	seen := make(map[string]bool)
	var first, rest []string

	for key := range records[0] {
		seen[key] = true
		first = append(first, key)
	}
	sort.Strings(first)

	for _, record := range records[1:] {
		for key := range record {
			if !seen[key] {
				seen[key] = true
				rest = append(rest, key)
			}
		}
	}
	sort.Strings(rest)

	return append(first, rest...)
}

func buildJSONColumn(name string, records []map[string]any) dataset.Column {
	null := make([]bool, len(records))
	numeric := true
	present := 0

	for i, record := range records {
		value, ok := record[name]
		if !ok || value == nil {
			null[i] = true
			continue
		}
		present++
		if _, isNumber := value.(json.Number); !isNumber {
			numeric = false
		}
	}

	if numeric && present > 0 {
		values := make([]float64, len(records))
		for i, record := range records {
			if null[i] {
				continue
			}
			number := record[name].(json.Number)
			values[i], _ = number.Float64()
		}
		return dataset.NewNumericColumn(name, values, null)
	}

	cells := make([]string, len(records))
	for i, record := range records {
		if null[i] {
			continue
		}
		cells[i] = renderJSONValue(record[name])
	}
	return dataset.NewTextColumn(name, cells, null)
}

func renderJSONValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		raw, _ := json.Marshal(v)
		return string(raw)
	}
}
