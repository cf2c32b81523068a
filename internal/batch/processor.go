// Package batch runs the report pipeline over several uploaded files at once.
// Files are independent: each gets its own ledger and payment queue, and a
// failing file is reported in its Outcome without stopping the others.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"DueReportSaas/internal/checksum"
	"DueReportSaas/internal/config"
	"DueReportSaas/internal/export"
	"DueReportSaas/internal/ingest"
	"DueReportSaas/internal/interest"
	"DueReportSaas/internal/logger"

	"golang.org/x/sync/errgroup"
)

var (
	ErrNoFiles      = errors.New("no files to process")
	ErrTooManyFiles = errors.New("too many files")
)

// Input is one uploaded file.
type Input struct {
	Name string
	Data []byte
}

// Outcome is the result for one Input. Exactly one of Err and Report is set.
type Outcome struct {
	Name         string
	DownloadName string
	Table        *interest.ReportTable
	Report       []byte
	Checksum     string
	Err          error
}

func (o Outcome) OK() bool { return o.Err == nil }

// Message is the user-facing line for a failed outcome.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	return fmt.Sprintf("Processing %s failed: %v", o.Name, o.Err)
}

type Processor struct {
	MaxFiles             int
	Parallel             int
	MaxRows              int
	AllowMissingPayments bool
}

func NewProcessor() *Processor {
	return &Processor{
		MaxFiles: config.MaxUploadFiles,
		Parallel: config.DefaultParallelism,
		MaxRows:  config.MaxRowsPerFile,
	}
}

// Run processes inputs with asOf as the report date. Outcomes are returned in
// input order. The error is non-nil only when the batch itself is rejected.
func (p *Processor) Run(ctx context.Context, inputs []Input, asOf time.Time) ([]Outcome, error) {
	if len(inputs) == 0 {
		return nil, ErrNoFiles
	}
	if p.MaxFiles > 0 && len(inputs) > p.MaxFiles {
		return nil, fmt.Errorf("%w: %d files, limit is %d", ErrTooManyFiles, len(inputs), p.MaxFiles)
	}

	opts := interest.Options{
		AsOf:                 asOf,
		AllowMissingPayments: p.AllowMissingPayments,
		MaxRows:              p.MaxRows,
	}

	outcomes := make([]Outcome, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	if p.Parallel > 0 {
		g.SetLimit(p.Parallel)
	}
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = Outcome{Name: in.Name, Err: err}
				return nil
			}
			outcomes[i] = p.processOne(in, opts)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if !o.OK() {
			failed++
			logger.Default().WithError(o.Err).WithField("file", o.Name).Warn("report generation failed")
		}
	}
	logger.Audit(fmt.Sprintf("batch processed %d files, %d failed", len(inputs), failed))
	return outcomes, nil
}

func (p *Processor) processOne(in Input, opts interest.Options) (out Outcome) {
	out.Name = in.Name
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Name: in.Name, Err: fmt.Errorf("unreadable file: %v", r)}
		}
	}()

	table, err := ingest.Load(in.Name, in.Data)
	if err != nil {
		out.Err = err
		return out
	}
	report, err := interest.ComputeReport(table, opts)
	if err != nil {
		out.Err = err
		return out
	}
	buf, err := export.WriteReport(report)
	if err != nil {
		out.Err = fmt.Errorf("failed to write report: %w", err)
		return out
	}

	out.DownloadName = export.FileName(in.Name)
	out.Table = report
	out.Report = buf.Bytes()
	out.Checksum = checksum.Sum(export.Digest(report))
	return out
}
