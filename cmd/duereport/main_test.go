package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const ledgerCSV = "Date,Interest,Nature\n2024-01-05,100.00,CALC\n2024-01-15,-100.00,POST\n"

func TestRunWritesReports(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "acme.csv")
	require.NoError(t, os.WriteFile(in, []byte(ledgerCSV), 0o644))
	out := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-out", out, "-as-of", "2024-02-01", in}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "acme.csv")

	f, err := excelize.OpenFile(filepath.Join(out, "acme_Payment_Due_Report.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Payment Due Report")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Due Date", rows[0][0])
	assert.Equal(t, "Total", rows[2][0])
}

func TestRunReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(good, []byte(ledgerCSV), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("Date,Amount\n2024-01-05,1\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-out", dir, "-as-of", "2024-02-01", good, bad, filepath.Join(dir, "absent.csv")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Processing bad.csv failed")
	assert.Contains(t, stderr.String(), "Processing absent.csv failed")
	assert.FileExists(t, filepath.Join(dir, "good_Payment_Due_Report.xlsx"))
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(nil, &stdout, &stderr))
	assert.Equal(t, 2, run([]string{"-as-of", "yesterday", "x.csv"}, &stdout, &stderr))
}

func TestRunRejectsDuplicateReportNames(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a", "ledger.csv")
	second := filepath.Join(dir, "b", "ledger.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(first), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Dir(second), 0o755))
	require.NoError(t, os.WriteFile(first, []byte(ledgerCSV), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("Date,Interest,Nature\n2024-01-05,999.00,CALC\n"), 0o644))
	out := filepath.Join(dir, "out")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-out", out, "-as-of", "2024-02-01", first, second}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Processing "+second+" failed")
	assert.Contains(t, stderr.String(), "would overwrite the report of "+first)

	f, err := excelize.OpenFile(filepath.Join(out, "ledger_Payment_Due_Report.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Payment Due Report", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "100", rows[1][1])
}
