package adapters

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/structure"
	"github.com/xuri/excelize/v2"

	"github.com/ppiankov/campusfaq/internal/model"
)

// XLSXAdapter reads Excel workbooks, one page per sheet
type XLSXAdapter struct{}

// NewXLSXAdapter creates an XLSX adapter
func NewXLSXAdapter() *XLSXAdapter {
	return &XLSXAdapter{}
}

// Name returns the adapter name
func (a *XLSXAdapter) Name() string {
	return "xlsx"
}

// CanHandle matches .xlsx files and the spreadsheetml content type
func (a *XLSXAdapter) CanHandle(name string, contentType string) bool {
	return hasExtension(name, ".xlsx", ".xlsm") ||
		hasContentType(contentType, "application/vnd.openxmlformats-officedocument.spreadsheetml")
}

// ExtractPages flattens every sheet row into a tab-separated line
func (a *XLSXAdapter) ExtractPages(data []byte) ([]model.Page, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	var pages []model.Page
	for i, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if text := joinRows(rows); text != "" {
			pages = append(pages, model.Page{Number: i + 1, Text: text})
		}
	}
	return pages, nil
}

// XLSAdapter reads legacy Excel 97-2003 workbooks, one page per sheet
type XLSAdapter struct{}

// NewXLSAdapter creates an XLS adapter
func NewXLSAdapter() *XLSAdapter {
	return &XLSAdapter{}
}

// Name returns the adapter name
func (a *XLSAdapter) Name() string {
	return "xls"
}

// CanHandle matches .xls files and application/vnd.ms-excel
func (a *XLSAdapter) CanHandle(name string, contentType string) bool {
	return hasExtension(name, ".xls") || hasContentType(contentType, "application/vnd.ms-excel")
}

// ExtractPages flattens every sheet row into a tab-separated line
func (a *XLSAdapter) ExtractPages(data []byte) ([]model.Page, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}

	var pages []model.Page
	for i := 0; i < wb.GetNumberSheets(); i++ {
		sheet, err := wb.GetSheet(i)
		if err != nil || sheet == nil {
			continue
		}
		var rows [][]string
		for _, row := range sheet.GetRows() {
			rows = append(rows, xlsRowValues(row.GetCols()))
		}
		if text := joinRows(rows); text != "" {
			pages = append(pages, model.Page{Number: i + 1, Text: text})
		}
	}
	return pages, nil
}

func xlsRowValues(cols []structure.CellData) []string {
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		val := col.GetString()
		if val == "" {
			if num := col.GetFloat64(); num != 0 {
				val = strconv.FormatFloat(num, 'f', -1, 64)
			} else if in := col.GetInt64(); in != 0 {
				val = strconv.FormatInt(in, 10)
			}
		}
		out = append(out, val)
	}
	return out
}

// joinRows renders rows as tab-separated lines, skipping empty rows
func joinRows(rows [][]string) string {
	var lines []string
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, c := range row {
			cells = append(cells, strings.TrimSpace(c))
		}
		line := strings.TrimRight(strings.Join(cells, "\t"), "\t")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
