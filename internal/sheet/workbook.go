package sheet

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mauv0809/rinkstats/internal/hockey"
	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the media type of the stored workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Workbook is the decoded spreadsheet: one Table per worksheet, in sheet order.
type Workbook struct {
	order  []string
	tables map[string]hockey.Table
}

func NewWorkbook() *Workbook {
	return &Workbook{tables: make(map[string]hockey.Table)}
}

// Sheets returns the worksheet names in workbook order.
func (w *Workbook) Sheets() []string {
	return slices.Clone(w.order)
}

// Table returns the named sheet.
func (w *Workbook) Table(name string) (hockey.Table, bool) {
	t, ok := w.tables[name]
	return t, ok
}

// SetTable replaces a sheet, appending it to the sheet order when new.
func (w *Workbook) SetTable(name string, t hockey.Table) {
	if _, ok := w.tables[name]; !ok {
		w.order = append(w.order, name)
	}
	w.tables[name] = t
}

// DecodeWorkbook reads every worksheet. The first row is the header; rows
// with no values are skipped. Numeric cells shown through a number format,
// such as dates, are read as their stored value.
func DecodeWorkbook(data []byte) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	w := NewWorkbook()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}
		w.SetTable(name, decodeRows(rawNumbers(rows, raw)))
	}
	return w, nil
}

// rawNumbers swaps formatted cells for their raw value when only the raw
// value is a number. "10/15/24" becomes the serial "45580"; plain text and
// unformatted numbers are left alone.
func rawNumbers(formatted, raw [][]string) [][]string {
	for i, row := range formatted {
		if i >= len(raw) {
			break
		}
		for j, cell := range row {
			if j >= len(raw[i]) || cell == raw[i][j] {
				continue
			}
			if _, err := strconv.ParseFloat(cell, 64); err == nil {
				continue
			}
			if _, err := strconv.ParseFloat(raw[i][j], 64); err == nil {
				row[j] = raw[i][j]
			}
		}
	}
	return formatted
}

func decodeRows(rows [][]string) hockey.Table {
	t := hockey.Table{Columns: []string{}, Rows: []hockey.Record{}}
	if len(rows) == 0 {
		return t
	}
	header := rows[0]
	index := make([]int, 0, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" || slices.Contains(t.Columns, h) {
			continue
		}
		t.Columns = append(t.Columns, h)
		index = append(index, i)
	}
	for _, row := range rows[1:] {
		rec := make(hockey.Record, len(t.Columns))
		blank := true
		for j, col := range t.Columns {
			var v string
			if i := index[j]; i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			if v != "" {
				blank = false
			}
			rec[col] = v
		}
		if !blank {
			t.Rows = append(t.Rows, rec)
		}
	}
	return t
}

// Encode writes every sheet with a fresh header row.
func (w *Workbook) Encode() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	for i, name := range w.order {
		if i == 0 {
			if name != defaultSheet {
				if err := f.SetSheetName(defaultSheet, name); err != nil {
					return nil, fmt.Errorf("failed to name sheet %s: %w", name, err)
				}
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
		if err := writeTable(f, name, w.tables[name]); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, name string, t hockey.Table) error {
	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", name, err)
	}
	for r, rec := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(t.Columns))
		for i, c := range t.Columns {
			values[i] = cellValue(rec[c])
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r+2, name, err)
		}
	}
	return nil
}

// cellValue stores canonical integers as numbers so the sheet stays sortable
// in a spreadsheet app. Everything else is text.
func cellValue(s string) interface{} {
	if n, err := strconv.Atoi(s); err == nil && strconv.Itoa(n) == s {
		return n
	}
	return s
}
