// Package ingest turns uploaded ledger files into row tables for the
// interest engine. xlsx workbooks go through excelize, legacy xls files
// through extrame/xls and csv through encoding/csv.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptySheet          = errors.New("sheet has no rows")
)

// PreferredSheet is read when present; otherwise the first sheet is used.
const PreferredSheet = "Sheet1"

// Table is a header row plus data rows. It satisfies interest.RowSource.
type Table struct {
	Sheet  string
	header []string
	rows   [][]string
	pos    int
}

func newTable(sheet string, records [][]string) (*Table, error) {
	// leading blank rows are common in exported ledgers
	for len(records) > 0 && blank(records[0]) {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, ErrEmptySheet
	}
	return &Table{Sheet: sheet, header: records[0], rows: records[1:]}, nil
}

func (t *Table) Header() []string { return t.header }

func (t *Table) Next() ([]string, bool) {
	for t.pos < len(t.rows) {
		row := t.rows[t.pos]
		t.pos++
		if !blank(row) {
			return row, true
		}
	}
	return nil, false
}

// Len is the number of data rows, blank rows included.
func (t *Table) Len() int { return len(t.rows) }

// Rewind restarts iteration from the first data row.
func (t *Table) Rewind() { t.pos = 0 }

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Load reads an uploaded file, choosing the reader from its extension.
func Load(name string, data []byte) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".xlsx", ".xlsm":
		return readXLSX(bytes.NewReader(data))
	case ".xls":
		return readXLS(bytes.NewReader(data))
	case ".csv":
		return readCSV(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
}

// Supported reports whether Load accepts files with this name.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xls", ".csv":
		return true
	}
	return false
}

func readCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return newTable("", records)
}
