package interest

import "time"

// ComputeReport normalizes src and computes its payment-due report.
func ComputeReport(src RowSource, opts Options) (*ReportTable, error) {
	ledger, err := Normalize(src, opts.MaxRows)
	if err != nil {
		return nil, err
	}
	return ComputeFromLedger(ledger, opts), nil
}

// ComputeFromLedger runs schedule, aggregation, allocation and assembly
// over an already normalized ledger.
func ComputeFromLedger(ledger *Ledger, opts Options) *ReportTable {
	if len(ledger.Accruals) == 0 {
		return placeholderTable(ledger.SkippedValues)
	}
	if len(ledger.Payments) == 0 && !opts.AllowMissingPayments {
		return placeholderTable(ledger.SkippedValues)
	}

	first := ledger.Accruals[0].Date
	last := ledger.Accruals[len(ledger.Accruals)-1].Date
	dueDates := BuildDueSchedule(first, last)

	periods := AggregateAccruals(dueDates, ledger.Accruals)
	queue := NewPaymentQueue(ledger.Payments)
	results := Allocate(periods, queue, opts.AsOf)

	var lastDue time.Time
	if n := len(dueDates); n > 0 {
		lastDue = dueDates[n-1]
	}
	table := AssembleReport(results, ledger, lastDue)
	table.Unallocated = queue.Total()
	return table
}
