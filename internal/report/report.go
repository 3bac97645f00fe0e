// Package report writes evaluation results to disk.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"ddqcheck/internal/finding"
)

const (
	// CSVFileName is the per-row report written to the output directory.
	CSVFileName = "report.csv"
	// SummaryFileName is the status histogram written to the output directory.
	SummaryFileName = "summary.json"
)

// Columns lists the report.csv header in order.
var Columns = []string{
	"sheet",
	"row_idx",
	"question_id",
	"question_text",
	"answer_text",
	"expected_text",
	"status",
	"reason",
	"details_json",
}

// Paths describes the files produced by Write.
type Paths struct {
	ReportCSV   string `json:"report_csv"`
	SummaryJSON string `json:"summary_json"`
}

// Result bundles output paths with the computed summary.
type Result struct {
	Paths
	Summary finding.Summary `json:"summary"`
}

// Write creates outDir and writes report.csv and summary.json for the results.
func Write(results []finding.Finding, outDir string) (Result, error) {
	if outDir == "" {
		return Result{}, fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}
	paths := Paths{
		ReportCSV:   filepath.Join(outDir, CSVFileName),
		SummaryJSON: filepath.Join(outDir, SummaryFileName),
	}
	if err := writeFile(paths.ReportCSV, func(w io.Writer) error { return WriteCSV(w, results) }); err != nil {
		return Result{}, err
	}
	summary := finding.Summarize(results)
	if err := writeFile(paths.SummaryJSON, func(w io.Writer) error { return WriteSummary(w, summary) }); err != nil {
		return Result{}, err
	}
	return Result{Paths: paths, Summary: summary}, nil
}

// WriteCSV encodes results as report.csv rows.
func WriteCSV(w io.Writer, results []finding.Finding) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, item := range results {
		details, err := item.DetailsJSON()
		if err != nil {
			return fmt.Errorf("encode details for %s row %d: %w", item.Sheet, item.RowIdx, err)
		}
		record := []string{
			item.Sheet,
			strconv.Itoa(item.RowIdx),
			item.ID(),
			item.QuestionText,
			item.AnswerText,
			item.ExpectedText,
			item.Status.String(),
			item.Reason,
			details,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary encodes the summary as indented JSON.
func WriteSummary(w io.Writer, summary finding.Summary) error {
	if summary.ByStatus == nil {
		summary.ByStatus = map[finding.Status]int{}
	}
	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = w.Write(payload)
	return err
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}
