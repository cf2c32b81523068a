package interest

import (
	"time"

	"github.com/shopspring/decimal"
)

// DueDay is the day of month every due date falls on.
const DueDay = 10

// FirstDueDate anchors the schedule: the 10th of the earliest month when earliest is on
// or after the 10th, otherwise the 10th of the month before.
func FirstDueDate(earliest time.Time) time.Time {
	earliest = dateOnly(earliest)
	if earliest.Day() >= DueDay {
		return time.Date(earliest.Year(), earliest.Month(), DueDay, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(earliest.Year(), earliest.Month()-1, DueDay, 0, 0, 0, 0, time.UTC)
}

// BuildDueSchedule returns the due dates for accruals dated between minDate
// and maxDate. Month starts are taken from the anchor returned by
// FirstDueDate up to maxDate and moved forward nine days.
func BuildDueSchedule(minDate, maxDate time.Time) []time.Time {
	anchor := FirstDueDate(minDate)
	maxDate = dateOnly(maxDate)

	var dates []time.Time
	ms := time.Date(anchor.Year(), anchor.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	for !ms.After(maxDate) {
		dates = append(dates, ms.AddDate(0, 0, DueDay-1))
		ms = ms.AddDate(0, 1, 0)
	}
	return dates
}

// AccrualWindowStart is the first day whose accruals count towards due.
// It steps from the 11th following due back 30 days and snaps to the 11th again.
func AccrualWindowStart(due time.Time) time.Time {
	next := dateOnly(due).AddDate(0, 0, 1)
	anchor := time.Date(next.Year(), next.Month(), 11, 0, 0, 0, 0, time.UTC)
	back := anchor.AddDate(0, 0, -30)
	return time.Date(back.Year(), back.Month(), 11, 0, 0, 0, 0, time.UTC)
}

// AggregateAccruals sums the accruals falling in each due date's window.
// Accruals with a missing amount are left out of the sums.
func AggregateAccruals(dueDates []time.Time, accruals []TransactionRecord) []DuePeriod {
	periods := make([]DuePeriod, 0, len(dueDates))
	for _, due := range dueDates {
		start := AccrualWindowStart(due)
		sum := decimal.Zero
		for _, a := range accruals {
			if !a.Amount.Valid || a.Date.Before(start) || a.Date.After(due) {
				continue
			}
			sum = sum.Add(a.Amount.Decimal)
		}
		periods = append(periods, DuePeriod{DueDate: due, InterestDue: round2(sum)})
	}
	return periods
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}
