package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the MIME type of the detail export.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteXLSX writes d as a single-sheet workbook with a header row. Columns
// flagged numeric are stored as numbers, everything else as text.
func WriteXLSX(w io.Writer, d Detail) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := d.Sheet
	if sheet == "" {
		sheet = "Detalle"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(d.Columns))
	for i, c := range d.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range d.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
			if j < len(d.Numeric) && d.Numeric[j] {
				if n, err := strconv.Atoi(v); err == nil {
					cells[j] = n
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// ReadXLSX reads back the first sheet of a workbook written by WriteXLSX.
func ReadXLSX(r io.Reader) (Detail, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Detail{}, err
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return Detail{}, errors.New("no worksheet found")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Detail{}, err
	}
	if len(rows) == 0 {
		return Detail{}, errors.New("worksheet is empty")
	}

	d := Detail{Sheet: sheet, Columns: rows[0], Rows: make([][]string, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		// GetRows trims trailing empty cells.
		for len(row) < len(d.Columns) {
			row = append(row, "")
		}
		d.Rows = append(d.Rows, row)
	}
	return d, nil
}
