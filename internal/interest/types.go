// Package interest computes the payment-due report for an interest ledger:
// the monthly due schedule anchored on the 10th, the accrued interest owed on
// each due date, the FIFO allocation of payments against those dues and the
// trailing accrued/total rows.
//
// Everything in this package is pure. The caller supplies the rows and the
// "as of" date; nothing here reads the clock, the filesystem or the network.
package interest

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category classifies a ledger row by its nature column.
type Category int

const (
	Accrual Category = iota + 1
	Payment
)

// Nature values as they appear in the input sheet.
const (
	NatureAccrual = "CALC"
	NaturePayment = "POST"
)

func (c Category) String() string {
	switch c {
	case Accrual:
		return NatureAccrual
	case Payment:
		return NaturePayment
	default:
		return "UNKNOWN"
	}
}

// Status of a report row.
type Status string

const (
	StatusFullyPaid   Status = "Fully Paid"
	StatusOutstanding Status = "Outstanding"
	StatusAccrued     Status = "Accrued"
)

// TransactionRecord is one CALC or POST row after normalization.
// Amount is invalid when the interest cell could not be read as a number.
type TransactionRecord struct {
	Date     time.Time
	Amount   decimal.NullDecimal
	Category Category
}

// DuePeriod is a due date and the interest that falls due on it.
type DuePeriod struct {
	DueDate     time.Time
	InterestDue decimal.Decimal
}

// RowKind distinguishes scheduled periods from the synthetic rows.
type RowKind int

const (
	RowPeriod RowKind = iota
	RowAccrued
	RowTotal
	RowPlaceholder
)

// PeriodResult is one line of the report.
type PeriodResult struct {
	Kind        RowKind
	Label       string
	DueDate     time.Time
	InterestDue decimal.Decimal
	PaidDates   []time.Time
	AmountPaid  decimal.Decimal
	BalanceDue  decimal.Decimal
	OverdueDays *int
	Status      Status
}

// ReportTable is the computed report. Unallocated holds whatever payment
// credit was left in the queue after the last due period.
type ReportTable struct {
	Rows          []PeriodResult
	Placeholder   bool
	Unallocated   decimal.Decimal
	SkippedValues int
}

// Options controls a single ComputeReport run.
type Options struct {
	// AsOf is the reporting date; overdue days are counted up to the day before it.
	AsOf time.Time
	// AllowMissingPayments computes the schedule for a ledger that has CALC
	// rows but no POST rows instead of returning the placeholder row.
	AllowMissingPayments bool
	// MaxRows caps the number of data rows read from one input. Zero means no cap.
	MaxRows int
}

// dateOnly truncates t to midnight UTC of its calendar day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
