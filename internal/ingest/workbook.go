package ingest

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"DueReportSaas/internal/interest"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

func readXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if idx, err := f.GetSheetIndex(PreferredSheet); err == nil && idx >= 0 {
		sheet = PreferredSheet
	}
	if sheet == "" {
		return nil, ErrEmptySheet
	}

	// Raw values keep numbers unformatted; date cells then arrive as serials.
	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	t, err := newTable(sheet, records)
	if err != nil {
		return nil, err
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	convertSerialDates(t, date1904)
	return t, nil
}

// convertSerialDates rewrites numeric cells in the date column as ISO dates.
func convertSerialDates(t *Table, date1904 bool) {
	col := -1
	for i, h := range t.header {
		if interest.NormalizeHeader(h) == interest.ColumnDate {
			col = i
			break
		}
	}
	if col < 0 {
		return
	}
	for _, row := range t.rows {
		if col >= len(row) {
			continue
		}
		serial, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil || serial <= 0 {
			continue
		}
		tm, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			continue
		}
		row[col] = tm.Format(interest.DateLayout)
	}
}

func readXLS(r io.ReadSeeker) (*Table, error) {
	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open xls workbook: %w", err)
	}

	sheet := wb.GetSheet(0)
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil && s.Name == PreferredSheet {
			sheet = s
			break
		}
	}
	if sheet == nil {
		return nil, ErrEmptySheet
	}

	records := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, strings.TrimSpace(row.Col(c)))
		}
		records = append(records, cells)
	}
	return newTable(sheet.Name, records)
}
