package interest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout       = "2006-01-02"
	TotalLabel       = "Total"
	PlaceholderLabel = "No CALC or POST rows found"
	PaidDateSep      = "||"
	NoPaidDates      = "—"
)

// Columns is the report header, in output order.
var Columns = []string{
	"Due Date",
	"Interest Due",
	"Paid Dates",
	"Amount Paid",
	"Balance Due",
	"Overdue_Days",
	"Status",
}

// AssembleReport appends the accrued row for accruals dated after lastDue,
// when there are any, and the Total row. A zero lastDue means no due date was
// scheduled and every accrual is reported as accrued.
func AssembleReport(results []PeriodResult, ledger *Ledger, lastDue time.Time) *ReportTable {
	rows := make([]PeriodResult, 0, len(results)+2)
	rows = append(rows, results...)

	if row, ok := accruedRow(ledger.Accruals, lastDue); ok {
		rows = append(rows, row)
	}
	rows = append(rows, totalRow(rows))

	return &ReportTable{
		Rows:          rows,
		Unallocated:   decimal.Zero,
		SkippedValues: ledger.SkippedValues,
	}
}

func accruedRow(accruals []TransactionRecord, lastDue time.Time) (PeriodResult, bool) {
	var first, last time.Time
	found := false
	sum := decimal.Zero
	for _, a := range accruals {
		if !a.Date.After(lastDue) {
			continue
		}
		if !found {
			first = a.Date
			found = true
		}
		last = a.Date
		if a.Amount.Valid {
			sum = sum.Add(a.Amount.Decimal)
		}
	}
	if !found {
		return PeriodResult{}, false
	}

	sum = round2(sum)
	return PeriodResult{
		Kind:        RowAccrued,
		Label:       fmt.Sprintf("%s → %s (accrued)", first.Format(DateLayout), last.Format(DateLayout)),
		InterestDue: sum,
		AmountPaid:  decimal.Zero,
		BalanceDue:  sum,
		Status:      StatusAccrued,
	}, true
}

func totalRow(rows []PeriodResult) PeriodResult {
	total := PeriodResult{
		Kind:        RowTotal,
		Label:       TotalLabel,
		InterestDue: decimal.Zero,
		AmountPaid:  decimal.Zero,
		BalanceDue:  decimal.Zero,
	}
	for _, r := range rows {
		total.InterestDue = total.InterestDue.Add(r.InterestDue)
		total.AmountPaid = total.AmountPaid.Add(r.AmountPaid)
		total.BalanceDue = total.BalanceDue.Add(r.BalanceDue)
	}
	total.InterestDue = round2(total.InterestDue)
	total.AmountPaid = round2(total.AmountPaid)
	total.BalanceDue = round2(total.BalanceDue)
	return total
}

func placeholderTable(skipped int) *ReportTable {
	return &ReportTable{
		Rows: []PeriodResult{{
			Kind:        RowPlaceholder,
			Label:       PlaceholderLabel,
			InterestDue: decimal.Zero,
			AmountPaid:  decimal.Zero,
			BalanceDue:  decimal.Zero,
		}},
		Placeholder:   true,
		Unallocated:   decimal.Zero,
		SkippedValues: skipped,
	}
}

// DueDateText is the first column: the due date, or the label of a synthetic row.
func (r PeriodResult) DueDateText() string {
	if r.Kind != RowPeriod {
		return r.Label
	}
	return r.DueDate.Format(DateLayout)
}

func (r PeriodResult) PaidDatesText() string {
	if r.Kind == RowTotal || r.Kind == RowPlaceholder {
		return ""
	}
	if len(r.PaidDates) == 0 {
		return NoPaidDates
	}
	parts := make([]string, len(r.PaidDates))
	for i, d := range r.PaidDates {
		parts[i] = d.Format(DateLayout)
	}
	return strings.Join(parts, PaidDateSep)
}

func (r PeriodResult) OverdueText() string {
	if r.OverdueDays == nil {
		return ""
	}
	return strconv.Itoa(*r.OverdueDays)
}
