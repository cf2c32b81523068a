// Command duereport builds payment due reports from ledger files on disk.
//
//	duereport [-out dir] [-as-of YYYY-MM-DD] [-parallel n] [-allow-missing-payments] file1.xlsx ...
//
// One <stem>_Payment_Due_Report.xlsx is written per readable ledger. Failed
// files are listed on stderr and the exit status is 1 if any file failed.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"DueReportSaas/internal/batch"
	"DueReportSaas/internal/config"
	"DueReportSaas/internal/export"
	"DueReportSaas/internal/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(config.DefaultEnvFile)
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("duereport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	outDir := fs.String("out", ".", "directory for generated reports")
	asOfRaw := fs.String("as-of", os.Getenv(config.AsOfEnv), "report date (YYYY-MM-DD), defaults to today")
	parallel := fs.Int("parallel", config.DefaultParallelism, "files processed at once")
	maxRows := fs.Int("max-rows", config.MaxRowsPerFile, "row limit per file")
	allowMissing := fs.Bool("allow-missing-payments", false, "report dues as outstanding when a file has no POST rows")
	tz := fs.String("tz", config.DefaultTimeZone, "time zone used to pick today's date")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: duereport [flags] file ...")
		fs.PrintDefaults()
		return 2
	}

	logger.Default().SetOutput(stderr)

	loc := config.Location(map[string]interface{}{"time_zone": *tz})
	asOf, err := config.ResolveAsOf(*asOfRaw, time.Now(), loc)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(stderr, "cannot create %s: %v\n", *outDir, err)
		return 1
	}

	inputs := make([]batch.Input, 0, fs.NArg())
	failed := 0
	// output file name -> input path that claimed it
	claimed := make(map[string]string, fs.NArg())
	for _, path := range fs.Args() {
		name := filepath.Base(path)
		out := export.FileName(name)
		if first, dup := claimed[out]; dup {
			fmt.Fprintf(stderr, "Processing %s failed: %s would overwrite the report of %s\n", path, out, first)
			failed++
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "Processing %s failed: %v\n", name, err)
			failed++
			continue
		}
		claimed[out] = path
		inputs = append(inputs, batch.Input{Name: name, Data: data})
	}
	if len(inputs) == 0 {
		return 1
	}

	p := batch.NewProcessor()
	p.MaxFiles = 0
	p.Parallel = *parallel
	p.MaxRows = *maxRows
	p.AllowMissingPayments = *allowMissing

	outcomes, err := p.Run(context.Background(), inputs, asOf)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	for _, o := range outcomes {
		if !o.OK() {
			fmt.Fprintln(stderr, o.Message())
			failed++
			continue
		}
		dest := filepath.Join(*outDir, o.DownloadName)
		if err := os.WriteFile(dest, o.Report, 0o644); err != nil {
			fmt.Fprintf(stderr, "Processing %s failed: %v\n", o.Name, err)
			failed++
			continue
		}
		fmt.Fprintf(stdout, "%s -> %s (%s)\n", o.Name, dest, o.Checksum[:12])
	}
	if failed > 0 {
		return 1
	}
	return 0
}
