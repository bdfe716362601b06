package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"devanalytics/internal/dataset"
)

// Options configures dataset export behavior
type Options struct {
	// Columns selects a subset in the given order; empty exports all
	// columns in original order.
	Columns []string
	// MaxRows caps the exported row count; 0 exports all rows
	MaxRows int
	// BOM prefixes CSV output with a UTF-8 BOM for Excel compatibility
	BOM bool
}

// view resolves the column selection and row count for an export
func view(ds *dataset.Dataset, opts Options) ([]string, int, error) {
	names := opts.Columns
	if len(names) == 0 {
		names = ds.Columns()
	} else {
		for _, name := range names {
			if !ds.HasColumn(name) {
				return nil, 0, fmt.Errorf("column not found: %s", name)
			}
		}
	}

	rows := ds.Len()
	if opts.MaxRows > 0 && opts.MaxRows < rows {
		rows = opts.MaxRows
	}
	return names, rows, nil
}

// MarshalCSV renders the dataset as a CSV document with a header row.
// Missing values export as empty cells.
func MarshalCSV(ds *dataset.Dataset, opts Options) ([]byte, error) {
	names, rows, err := view(ds, opts)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if opts.BOM {
		buf.Write([]byte{0xEF, 0xBB, 0xBF})
	}

	writer := csv.NewWriter(&buf)
	if err := writer.Write(names); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	columns := make([]dataset.Column, len(names))
	for i, name := range names {
		columns[i], _ = ds.Column(name)
	}

	record := make([]string, len(names))
	for row := 0; row < rows; row++ {
		for i, col := range columns {
			record[i] = col.Render(row)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write record %d: %w", row, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
