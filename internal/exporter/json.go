package exporter

import (
	"bytes"
	"encoding/json"
	"time"

	"devanalytics/internal/dataset"
)

// MarshalJSON renders the dataset as an indented JSON document with export
// metadata. Rows are objects keyed by column name; missing values are null.
func MarshalJSON(ds *dataset.Dataset, opts Options) ([]byte, error) {
	names, rowCount, err := view(ds, opts)
	if err != nil {
		return nil, err
	}

	columns := make([]dataset.Column, len(names))
	for i, name := range names {
		columns[i], _ = ds.Column(name)
	}

	rows := make([]map[string]any, rowCount)
	for row := 0; row < rowCount; row++ {
		record := make(map[string]any, len(names))
		for i, col := range columns {
			record[names[i]] = col.Value(row)
		}
		rows[row] = record
	}

	document := map[string]any{
		"columns":      names,
		"rows":         rows,
		"count":        rowCount,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(document); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
