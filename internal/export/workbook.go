// Package export renders a computed report as the downloadable workbook.
package export

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"DueReportSaas/internal/interest"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName      = "Payment Due Report"
	FileSuffix     = "_Payment_Due_Report.xlsx"
	// built-in number format 4 is #,##0.00
	currencyNumFmt = 4
	maxColWidth    = 60
	minColWidth    = 10
)

// money columns, zero based
var moneyCols = map[int]bool{1: true, 3: true, 4: true}

// FileName is the download name for an uploaded file: its stem plus FileSuffix.
func FileName(upload string) string {
	base := filepath.Base(upload)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		stem = "report"
	}
	return stem + FileSuffix
}

// Records is the report as a text grid, header first. Money is rendered with
// two decimals. Checksums and previews are computed over this grid.
func Records(table *interest.ReportTable) [][]string {
	out := make([][]string, 0, len(table.Rows)+1)
	out = append(out, append([]string(nil), interest.Columns...))
	for _, r := range table.Rows {
		if r.Kind == interest.RowPlaceholder {
			out = append(out, []string{r.Label, "", "", "", "", "", ""})
			continue
		}
		out = append(out, []string{
			r.DueDateText(),
			r.InterestDue.StringFixed(2),
			r.PaidDatesText(),
			r.AmountPaid.StringFixed(2),
			r.BalanceDue.StringFixed(2),
			r.OverdueText(),
			string(r.Status),
		})
	}
	return out
}

// Digest is the canonical byte form of the report used for checksums.
func Digest(table *interest.ReportTable) []byte {
	var b bytes.Buffer
	for _, rec := range Records(table) {
		b.WriteString(strings.Join(rec, "\t"))
		b.WriteByte('\n')
	}
	return b.Bytes()
}

// WriteReport renders table into a new workbook.
func WriteReport(table *interest.ReportTable) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	header := make([]interface{}, len(interest.Columns))
	for i, c := range interest.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, err
	}

	for i, r := range table.Rows {
		rowNum := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(SheetName, cell, rowValues(r)); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", rowNum, err)
		}
		if r.Kind == interest.RowPlaceholder {
			continue
		}
		if err := styleRow(f, styles, r, rowNum); err != nil {
			return nil, err
		}
	}

	last, _ := excelize.ColumnNumberToName(len(interest.Columns))
	if err := f.SetCellStyle(SheetName, "A1", last+"1", styles.header); err != nil {
		return nil, err
	}
	if err := setWidths(f, Records(table)); err != nil {
		return nil, err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}

func rowValues(r interest.PeriodResult) *[]interface{} {
	if r.Kind == interest.RowPlaceholder {
		return &[]interface{}{r.Label}
	}
	var overdue interface{} = ""
	if r.OverdueDays != nil {
		overdue = *r.OverdueDays
	}
	return &[]interface{}{
		r.DueDateText(),
		r.InterestDue.InexactFloat64(),
		r.PaidDatesText(),
		r.AmountPaid.InexactFloat64(),
		r.BalanceDue.InexactFloat64(),
		overdue,
		string(r.Status),
	}
}

type styleSet struct {
	header    int
	money     int
	total     int
	totalText int
}

func newStyles(f *excelize.File) (styleSet, error) {
	var s styleSet
	var err error

	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}); err != nil {
		return s, err
	}
	if s.money, err = f.NewStyle(&excelize.Style{NumFmt: currencyNumFmt}); err != nil {
		return s, err
	}
	if s.total, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		NumFmt: currencyNumFmt,
	}); err != nil {
		return s, err
	}
	if s.totalText, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	return s, nil
}

func styleRow(f *excelize.File, s styleSet, r interest.PeriodResult, rowNum int) error {
	for col := 1; col <= len(interest.Columns); col++ {
		style := 0
		switch {
		case r.Kind == interest.RowTotal && moneyCols[col-1]:
			style = s.total
		case r.Kind == interest.RowTotal:
			style = s.totalText
		case moneyCols[col-1]:
			style = s.money
		}
		if style == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(col, rowNum)
		if err := f.SetCellStyle(SheetName, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func setWidths(f *excelize.File, records [][]string) error {
	widths := make([]int, len(interest.Columns))
	for _, rec := range records {
		for i, v := range rec {
			if i >= len(widths) {
				break
			}
			if n := utf8.RuneCountInString(v) + 2; n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i, w := range widths {
		if w < minColWidth {
			w = minColWidth
		}
		if w > maxColWidth {
			w = maxColWidth
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, name, name, float64(w)); err != nil {
			return err
		}
	}
	return nil
}
