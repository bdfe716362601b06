package ingestion

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"devanalytics/internal/dataset"
)

// LoadCSV reads a CSV document with a header row into a Dataset. A UTF-8
// BOM is stripped if present. Empty cells become missing values. A column
// whose non-empty cells all parse as numbers gets numeric storage;
// everything else stays text (date-like text is recognized later by the
// column classifier, never coerced here).
func LoadCSV(r io.Reader) (*dataset.Dataset, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	// Strip UTF-8 BOM so the first header cell matches cleanly
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(content))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv document")
	}

	header := records[0]
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
		if header[i] == "" {
			return nil, fmt.Errorf("column %d has an empty header", i+1)
		}
	}

	rows := records[1:]
	columns := make([]dataset.Column, len(header))
	for col, name := range header {
		cells := make([]string, len(rows))
		for row := range rows {
			if col < len(rows[row]) {
				cells[row] = strings.TrimSpace(rows[row][col])
			}
		}
		columns[col] = buildColumn(name, cells)
	}

	return dataset.New(columns...)
}

// buildColumn sniffs the cell values and produces a typed column
func buildColumn(name string, cells []string) dataset.Column {
	null := make([]bool, len(cells))
	numeric := true
	nonEmpty := 0

	for i, cell := range cells {
		if cell == "" {
			null[i] = true
			continue
		}
		nonEmpty++
		if numeric {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				numeric = false
			}
		}
	}

	if numeric && nonEmpty > 0 {
		values := make([]float64, len(cells))
		for i, cell := range cells {
			if !null[i] {
				values[i], _ = strconv.ParseFloat(cell, 64)
			}
		}
		return dataset.NewNumericColumn(name, values, null)
	}

	return dataset.NewTextColumn(name, cells, null)
}
