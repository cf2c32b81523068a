package interest

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type sliceSource struct {
	header []string
	rows   [][]string
	pos    int
}

func (s *sliceSource) Header() []string { return s.header }

func (s *sliceSource) Next() ([]string, bool) {
	if s.pos >= len(s.rows) {
		return nil, false
	}
	row := s.rows[s.pos]
	s.pos++
	return row, true
}

// ledgerRows builds a source with the standard header from (date, interest, nature) triples.
func ledgerRows(rows ...[]string) *sliceSource {
	return &sliceSource{header: []string{"Date", "Interest", "Nature"}, rows: rows}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), msgAndArgs...)
}

func accrual(date time.Time, amount string) TransactionRecord {
	return TransactionRecord{Date: date, Amount: decimal.NewNullDecimal(money(amount)), Category: Accrual}
}

func payment(date time.Time, amount string) TransactionRecord {
	return TransactionRecord{Date: date, Amount: decimal.NewNullDecimal(money(amount)), Category: Payment}
}
