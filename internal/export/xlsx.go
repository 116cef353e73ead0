package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"sarpras/internal/tableview"

	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultSheet    = "Sheet1"
)

// Table is a rendered table view ready to be written out.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Numeric marks columns written as numbers.
	Numeric map[int]bool
}

// FromSchema renders items through schema's columns.
func FromSchema[T any](schema *tableview.Schema[T], items []T) Table {
	t := Table{Title: schema.Name(), Headers: schema.Headers(), Numeric: map[int]bool{}}
	for i, f := range schema.Fields() {
		if schema.IsNumeric(f) {
			t.Numeric[i] = true
		}
	}
	for _, item := range items {
		t.Rows = append(t.Rows, schema.Row(item))
	}
	return t
}

// Filename is the download name for t exported at now.
func (t Table) Filename(now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", t.Title, now.Format("20060102_150405"))
}

// WriteXLSX writes t as a single-sheet workbook with a styled header row.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Title)
	if sheet != defaultSheet {
		if err := f.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("error naming sheet: %w", err)
		}
	}

	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	if len(t.Headers) > 0 {
		style, err := f.NewStyle(&excelize.Style{
			Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
			Font:      &excelize.Font{Bold: true},
			Alignment: &excelize.Alignment{Horizontal: "center"},
		})
		if err == nil {
			last, _ := excelize.CoordinatesToCellName(len(t.Headers), 1)
			_ = f.SetCellStyle(sheet, "A1", last, style)
		}
	}

	for r, row := range t.Rows {
		cells := make([]any, len(row))
		for c, v := range row {
			cells[c] = v
			if t.Numeric[c] {
				if n, err := strconv.ParseInt(v, 10, 64); err == nil {
					cells[c] = n
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("error writing row %d: %w", r+1, err)
		}
	}

	for i := range t.Headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, 20)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

// sheetName trims title to the 31 characters Excel allows.
func sheetName(title string) string {
	if title == "" {
		return defaultSheet
	}
	if len(title) > 31 {
		return title[:31]
	}
	return title
}
