package interest

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Required column names after header normalization.
const (
	ColumnDate     = "date"
	ColumnInterest = "interest"
	ColumnNature   = "nature"
)

var (
	ErrMissingRequiredColumn = errors.New("missing required column")
	ErrMalformedDate         = errors.New("malformed date")
	ErrTooManyRows           = errors.New("row limit exceeded")
)

// MissingColumnError lists the required columns absent from a header row.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingRequiredColumn, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingRequiredColumn
}

// RowSource iterates the rows of one input table.
type RowSource interface {
	Header() []string
	Next() ([]string, bool)
}

// Ledger is the normalized content of one input.
type Ledger struct {
	Accruals []TransactionRecord
	Payments []TransactionRecord
	// SkippedValues counts CALC/POST rows whose interest could not be parsed.
	SkippedValues int
	// IgnoredRows counts rows whose nature is neither CALC nor POST.
	IgnoredRows int
}

// NormalizeHeader folds a header cell for matching: lower case, no whitespace.
func NormalizeHeader(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), "")
}

// Normalize reads src into a Ledger. maxRows caps the data rows read; zero disables the cap.
func Normalize(src RowSource, maxRows int) (*Ledger, error) {
	idx := map[string]int{}
	for i, h := range src.Header() {
		key := NormalizeHeader(h)
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}

	var missing []string
	for _, col := range []string{ColumnDate, ColumnInterest, ColumnNature} {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}

	ledger := &Ledger{}
	line := 1
	for {
		row, ok := src.Next()
		if !ok {
			break
		}
		line++
		if maxRows > 0 && line-1 > maxRows {
			return nil, fmt.Errorf("%w: more than %d rows", ErrTooManyRows, maxRows)
		}

		var cat Category
		switch strings.ToUpper(strings.TrimSpace(cell(row, idx[ColumnNature]))) {
		case NatureAccrual:
			cat = Accrual
		case NaturePayment:
			cat = Payment
		default:
			ledger.IgnoredRows++
			continue
		}

		rawDate := cell(row, idx[ColumnDate])
		date, err := ParseDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		amount := ParseAmount(cell(row, idx[ColumnInterest]))
		if !amount.Valid {
			ledger.SkippedValues++
		}

		rec := TransactionRecord{Date: date, Amount: amount, Category: cat}
		if cat == Accrual {
			ledger.Accruals = append(ledger.Accruals, rec)
		} else {
			ledger.Payments = append(ledger.Payments, rec)
		}
	}

	sortByDate(ledger.Accruals)
	sortByDate(ledger.Payments)
	return ledger, nil
}

func sortByDate(recs []TransactionRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Date.Before(recs[j].Date)
	})
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02-01-2006",
	"02-01-2006 15:04:05",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"1/2/2006",
	"2006/01/02",
	"02.01.2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
}

// ParseDate accepts the date layouts seen in ledger exports, or an Excel
// serial day number, and returns the calendar day at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrMalformedDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOnly(t), nil
		}
	}
	if t, ok := excelSerial(s); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
}

// maxExcelSerial is 9999-12-31 in the 1900 date system.
const maxExcelSerial = 2958465

// excelSerial reads a 1900-system Excel serial day number, as found in CSV
// exports of date columns.
func excelSerial(s string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial < 1 || serial > maxExcelSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return dateOnly(t), true
}

// ParseAmount reads an interest cell as a plain decimal number. Formatted
// text such as "1,000", "$5" or "(50)" is not a number and yields an
// invalid value, as does a blank cell.
func ParseAmount(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
