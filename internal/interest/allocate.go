package interest

import (
	"time"

	"github.com/shopspring/decimal"
)

// epsilon is the smallest balance the allocator treats as owed.
var epsilon = decimal.New(1, -2)

// QueuedPayment is a payment credit waiting to be applied.
type QueuedPayment struct {
	Date      time.Time
	Remaining decimal.Decimal
}

// PaymentQueue is the FIFO of payment credits consumed by Allocate.
// A partially used credit goes back to the front, so the queue keeps a head
// index into its backing slice and reuses the slot on PushFront.
type PaymentQueue struct {
	items []QueuedPayment
	head  int
}

// NewPaymentQueue builds the queue from POST rows. Stored payments are
// negative interest, so each amount is negated; rows with a missing amount
// or a credit that is not positive never enter the queue.
func NewPaymentQueue(payments []TransactionRecord) *PaymentQueue {
	q := &PaymentQueue{items: make([]QueuedPayment, 0, len(payments))}
	for _, p := range payments {
		if !p.Amount.Valid {
			continue
		}
		credit := p.Amount.Decimal.Neg()
		if !credit.IsPositive() {
			continue
		}
		q.items = append(q.items, QueuedPayment{Date: p.Date, Remaining: credit})
	}
	return q
}

func (q *PaymentQueue) Len() int {
	return len(q.items) - q.head
}

func (q *PaymentQueue) PopFront() (QueuedPayment, bool) {
	if q.Len() == 0 {
		return QueuedPayment{}, false
	}
	p := q.items[q.head]
	q.head++
	return p, true
}

func (q *PaymentQueue) PushFront(p QueuedPayment) {
	if q.head > 0 {
		q.head--
		q.items[q.head] = p
		return
	}
	q.items = append([]QueuedPayment{p}, q.items...)
}

// Total is the credit still in the queue.
func (q *PaymentQueue) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range q.items[q.head:] {
		sum = sum.Add(p.Remaining)
	}
	return sum
}

// Allocate walks periods in order and pays each from the front of queue.
// asOf is the reporting date used for overdue days.
func Allocate(periods []DuePeriod, queue *PaymentQueue, asOf time.Time) []PeriodResult {
	yesterday := dateOnly(asOf).AddDate(0, 0, -1)
	results := make([]PeriodResult, 0, len(periods))

	for _, period := range periods {
		remaining := period.InterestDue
		paid := decimal.Zero
		var dates []time.Time

		for remaining.GreaterThan(epsilon) && queue.Len() > 0 {
			p, _ := queue.PopFront()
			dates = append(dates, p.Date)
			if p.Remaining.GreaterThanOrEqual(remaining) {
				// An exact match still goes back as a zero credit, so its
				// date is also listed against the next period.
				queue.PushFront(QueuedPayment{Date: p.Date, Remaining: p.Remaining.Sub(remaining)})
				paid = paid.Add(remaining)
				remaining = decimal.Zero
				break
			}
			paid = paid.Add(p.Remaining)
			remaining = remaining.Sub(p.Remaining)
		}

		balance := round2(period.InterestDue.Sub(paid))
		res := PeriodResult{
			Kind:        RowPeriod,
			DueDate:     period.DueDate,
			InterestDue: period.InterestDue,
			PaidDates:   dates,
			AmountPaid:  round2(paid),
			BalanceDue:  balance,
			Status:      StatusFullyPaid,
		}
		if !balance.LessThan(epsilon) {
			res.Status = StatusOutstanding
			res.OverdueDays = overdueDays(period.DueDate, yesterday)
		}
		results = append(results, res)
	}
	return results
}

func overdueDays(due, yesterday time.Time) *int {
	days := int(yesterday.Sub(due).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}
