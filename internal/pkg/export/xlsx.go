// Package export renders tabular reports into spreadsheet files.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet is one worksheet: a bold header row followed by data rows.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// XLSX builds a workbook with the sheets in order and returns its bytes.
func XLSX(sheets ...Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("export: at least one sheet is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("export: header style: %w", err)
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return nil, fmt.Errorf("export: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("export: new sheet %q: %w", sheet.Name, err)
		}

		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	header := make([]any, len(sheet.Header))
	for i, h := range sheet.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("export: header of %q: %w", sheet.Name, err)
	}
	if err := f.SetRowStyle(sheet.Name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("export: header style of %q: %w", sheet.Name, err)
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("export: row %d of %q: %w", i+1, sheet.Name, err)
		}
	}

	if len(sheet.Header) > 0 {
		last, err := excelize.ColumnNumberToName(len(sheet.Header))
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, "A", last, 18); err != nil {
			return fmt.Errorf("export: column width of %q: %w", sheet.Name, err)
		}
	}
	return nil
}
