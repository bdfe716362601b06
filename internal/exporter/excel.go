package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"devanalytics/internal/dataset"
)

// excelSheet is the sheet name used for dataset exports
const excelSheet = "Data"

// MarshalExcel renders the dataset as an XLSX workbook with a single data
// sheet. Numeric cells keep their numeric type so spreadsheet formulas work
// on them; missing values stay empty.
func MarshalExcel(ds *dataset.Dataset, opts Options) ([]byte, error) {
	names, rows, err := view(ds, opts)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(excelSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}

	header := make([]any, len(names))
	for i, name := range names {
		header[i] = name
	}
	if err := f.SetSheetRow(excelSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	columns := make([]dataset.Column, len(names))
	for i, name := range names {
		columns[i], _ = ds.Column(name)
	}

	record := make([]any, len(names))
	for row := 0; row < rows; row++ {
		for i, col := range columns {
			record[i] = excelCell(col, row)
		}
		cell, err := excelize.CoordinatesToCellName(1, row+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(excelSheet, cell, &record); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func excelCell(col dataset.Column, row int) any {
	if col.IsNull(row) {
		return nil
	}
	if v, ok := col.Float(row); ok {
		return v
	}
	return col.Render(row)
}
