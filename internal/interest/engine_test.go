package interest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(table *ReportTable) []string {
	out := make([]string, 0, len(table.Rows))
	for _, r := range table.Rows {
		out = append(out, strings.Join([]string{
			r.DueDateText(),
			r.InterestDue.StringFixed(2),
			r.PaidDatesText(),
			r.AmountPaid.StringFixed(2),
			r.BalanceDue.StringFixed(2),
			r.OverdueText(),
			string(r.Status),
		}, " | "))
	}
	return out
}

func TestComputeReportPaymentAfterDueDate(t *testing.T) {
	table, err := ComputeReport(ledgerRows(
		[]string{"2024-01-05", "100.00", "CALC"},
		[]string{"2024-01-15", "-100.00", "POST"},
	), Options{AsOf: day(2024, time.February, 1)})
	require.NoError(t, err)

	// The queue is consumed in order without regard to payment dates, so the
	// 15 January payment settles the 10 January due.
	assert.Equal(t, []string{
		"2024-01-10 | 100.00 | 2024-01-15 | 100.00 | 0.00 |  | Fully Paid",
		"Total | 100.00 |  | 100.00 | 0.00 |  | ",
	}, render(table))
	assert.False(t, table.Placeholder)
	assertMoney(t, "0.00", table.Unallocated)
}

func TestComputeReportWithoutPayments(t *testing.T) {
	rows := func() *sliceSource {
		return ledgerRows(
			[]string{"2024-01-05", "50", "CALC"},
			[]string{"2024-02-05", "30", "CALC"},
		)
	}

	t.Run("placeholder by default", func(t *testing.T) {
		table, err := ComputeReport(rows(), Options{AsOf: day(2024, time.March, 1)})
		require.NoError(t, err)
		assert.True(t, table.Placeholder)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, PlaceholderLabel, table.Rows[0].DueDateText())
		assert.Equal(t, RowPlaceholder, table.Rows[0].Kind)
	})

	t.Run("all outstanding when allowed", func(t *testing.T) {
		table, err := ComputeReport(rows(), Options{AsOf: day(2024, time.March, 1), AllowMissingPayments: true})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"2024-01-10 | 50.00 | — | 0.00 | 50.00 | 50 | Outstanding",
			"2024-02-10 | 30.00 | — | 0.00 | 30.00 | 19 | Outstanding",
			"Total | 80.00 |  | 0.00 | 80.00 |  | ",
		}, render(table))
	})
}

func TestComputeReportWithoutAccruals(t *testing.T) {
	table, err := ComputeReport(ledgerRows(
		[]string{"2024-01-05", "-50", "POST"},
	), Options{AsOf: day(2024, time.March, 1), AllowMissingPayments: true})
	require.NoError(t, err)
	assert.True(t, table.Placeholder)
	assert.Len(t, table.Rows, 1)
}

func TestComputeReportOverpaymentCarriesForward(t *testing.T) {
	table, err := ComputeReport(ledgerRows(
		[]string{"2024-01-05", "50", "CALC"},
		[]string{"2024-02-05", "30", "CALC"},
		[]string{"2024-01-08", "-70", "POST"},
	), Options{AsOf: day(2024, time.March, 1)})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2024-01-10 | 50.00 | 2024-01-08 | 50.00 | 0.00 |  | Fully Paid",
		"2024-02-10 | 30.00 | 2024-01-08 | 20.00 | 10.00 | 19 | Outstanding",
		"Total | 80.00 |  | 70.00 | 10.00 |  | ",
	}, render(table))
}

func TestComputeReportAccruedRow(t *testing.T) {
	table, err := ComputeReport(ledgerRows(
		[]string{"2024-01-05", "50", "CALC"},
		[]string{"2024-01-20", "20", "CALC"},
		[]string{"2024-01-22", "oops", "CALC"},
		[]string{"2024-01-25", "5", "CALC"},
		[]string{"2024-01-06", "-50", "POST"},
	), Options{AsOf: day(2024, time.January, 31)})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2024-01-10 | 50.00 | 2024-01-06 | 50.00 | 0.00 |  | Fully Paid",
		"2024-01-20 → 2024-01-25 (accrued) | 25.00 | — | 0.00 | 25.00 |  | Accrued",
		"Total | 75.00 |  | 50.00 | 25.00 |  | ",
	}, render(table))
	assert.Equal(t, 1, table.SkippedValues)
}

func TestComputeReportEmptySchedule(t *testing.T) {
	table, err := ComputeReport(ledgerRows(
		[]string{"2024-01-15", "40", "CALC"},
		[]string{"2024-01-20", "10", "CALC"},
		[]string{"2024-01-16", "-5", "POST"},
	), Options{AsOf: day(2024, time.January, 31)})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"2024-01-15 → 2024-01-20 (accrued) | 50.00 | — | 0.00 | 50.00 |  | Accrued",
		"Total | 50.00 |  | 0.00 | 50.00 |  | ",
	}, render(table))
	assertMoney(t, "5.00", table.Unallocated)
}

func TestComputeReportMissingColumn(t *testing.T) {
	_, err := ComputeReport(&sliceSource{header: []string{"Date", "Nature"}}, Options{})
	assert.ErrorIs(t, err, ErrMissingRequiredColumn)
}

// syntheticLedger is a year of daily accruals with a payment every 20 days.
func syntheticLedger() *sliceSource {
	var rows [][]string
	start := day(2023, time.March, 7)
	for i := 0; i < 365; i++ {
		d := start.AddDate(0, 0, i)
		rows = append(rows, []string{d.Format(DateLayout), fmt.Sprintf("%d.%02d", 1+i%3, (i*37)%100), "CALC"})
		if i%20 == 0 {
			rows = append(rows, []string{d.AddDate(0, 0, 3).Format(DateLayout), fmt.Sprintf("-%d.25", 30+i%11), "POST"})
		}
	}
	return ledgerRows(rows...)
}

func TestComputeReportProperties(t *testing.T) {
	src := syntheticLedger()
	table, err := ComputeReport(src, Options{AsOf: day(2024, time.April, 1)})
	require.NoError(t, err)
	require.Greater(t, len(table.Rows), 2)

	var credits decimal.Decimal
	for _, r := range src.rows {
		if r[2] == "POST" {
			credits = credits.Add(money(r[1]).Neg())
		}
	}

	rows := table.Rows
	total := rows[len(rows)-1]
	require.Equal(t, RowTotal, total.Kind)

	sumDue, sumPaid, sumBal, periodPaid := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	var prev time.Time
	for _, r := range rows[:len(rows)-1] {
		assert.True(t, r.AmountPaid.Add(r.BalanceDue).Equal(r.InterestDue), r.DueDateText())
		assert.False(t, r.AmountPaid.IsNegative())

		sumDue = sumDue.Add(r.InterestDue)
		sumPaid = sumPaid.Add(r.AmountPaid)
		sumBal = sumBal.Add(r.BalanceDue)

		if r.Kind != RowPeriod {
			continue
		}
		periodPaid = periodPaid.Add(r.AmountPaid)
		assert.Equal(t, DueDay, r.DueDate.Day())
		if !prev.IsZero() {
			assert.Equal(t, prev.AddDate(0, 1, 0), r.DueDate)
		}
		prev = r.DueDate

		if r.Status == StatusFullyPaid {
			assert.Nil(t, r.OverdueDays)
		} else {
			assert.NotNil(t, r.OverdueDays)
		}
	}

	assert.True(t, total.InterestDue.Equal(sumDue))
	assert.True(t, total.AmountPaid.Equal(sumPaid))
	assert.True(t, total.BalanceDue.Equal(sumBal))
	assert.True(t, periodPaid.Add(table.Unallocated).Equal(credits),
		"paid %s + unallocated %s != credits %s", periodPaid, table.Unallocated, credits)
}

func TestComputeReportIsIdempotent(t *testing.T) {
	opts := Options{AsOf: day(2024, time.April, 1)}
	first, err := ComputeReport(syntheticLedger(), opts)
	require.NoError(t, err)
	second, err := ComputeReport(syntheticLedger(), opts)
	require.NoError(t, err)

	assert.Equal(t, render(first), render(second))
	assert.True(t, first.Unallocated.Equal(second.Unallocated))
}
