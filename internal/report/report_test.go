package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ddqcheck/internal/finding"
	"ddqcheck/internal/question"
)

func sampleResults() []finding.Finding {
	return []finding.Finding{
		finding.Passed(question.NewRow("General", 1, "1.1", "Name der Gesellschaft", "ACME AG", "")),
		finding.Skipped(question.NewRow("General", 2, "", "Hinweis: bitte ausfüllen", "", "")),
		finding.New(question.NewRow("General", 3, "1.3", "E-Mail", "keine", ""),
			finding.StatusIncomplete, "Expected a valid email address.", finding.Details{"expected": "email"}),
		finding.New(question.NewRow("Fund Management", 4, "2.1", "Beschreiben Sie", "siehe Anlage 3", ""),
			finding.StatusNeedsEvidence, "Answer references an attachment/section; requires document evidence retrieval.",
			finding.Details{"reference_detected": true}),
	}
}

// TestWriteProducesCSVAndSummary verifies both report files and their contents.
func TestWriteProducesCSVAndSummary(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "output")
	result, err := Write(sampleResults(), outDir)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if result.ReportCSV != filepath.Join(outDir, CSVFileName) {
		t.Fatalf("unexpected csv path: %s", result.ReportCSV)
	}

	file, err := os.Open(result.ReportCSV)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(Columns, ",") {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[2][2] != "" {
		t.Fatalf("expected empty question id, got %q", records[2][2])
	}
	if records[3][8] != `{"expected":"email"}` {
		t.Fatalf("unexpected details json: %s", records[3][8])
	}
	if records[1][8] != `{"validated":true}` {
		t.Fatalf("unexpected placeholder details: %s", records[1][8])
	}

	payload, err := os.ReadFile(result.SummaryJSON)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var summary finding.Summary
	if err := json.Unmarshal(payload, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalRows != 4 || summary.TotalFlagged != 2 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if summary.ByStatus[finding.StatusNeedsEvidence] != 1 {
		t.Fatalf("unexpected by_status: %+v", summary.ByStatus)
	}
	if !strings.Contains(string(payload), "\n  \"total_rows\": 4") {
		t.Fatalf("expected two-space indentation, got %s", payload)
	}
}

// TestWriteSummaryEmptyResults verifies by_status is an object for empty input.
func TestWriteSummaryEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, finding.Summary{}); err != nil {
		t.Fatalf("write summary: %v", err)
	}
	if !strings.Contains(buf.String(), `"by_status": {}`) {
		t.Fatalf("expected empty by_status object, got %s", buf.String())
	}
}

// TestWriteRequiresOutputDir verifies the output directory guard.
func TestWriteRequiresOutputDir(t *testing.T) {
	if _, err := Write(sampleResults(), ""); err == nil {
		t.Fatalf("expected error for empty output dir")
	}
}

// TestRenderSummaryPlain verifies the terminal summary without styling.
func TestRenderSummaryPlain(t *testing.T) {
	outDir := t.TempDir()
	result, err := Write(sampleResults(), outDir)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, result, true); err != nil {
		t.Fatalf("render: %v", err)
	}
	output := buf.String()
	for _, token := range []string{
		"DDQ Validation Complete",
		"Flagged rows: 2 (50.00% of 4)",
		"  - OK: 1",
		"  - INCOMPLETE: 1",
		"  - NEEDS_EVIDENCE: 1",
		result.ReportCSV,
		result.SummaryJSON,
	} {
		if !strings.Contains(output, token) {
			t.Fatalf("expected %q in output:\n%s", token, output)
		}
	}
	if strings.Contains(output, "REJECTED") {
		t.Fatalf("absent statuses should not be listed:\n%s", output)
	}
	if strings.Index(output, "OK:") > strings.Index(output, "INCOMPLETE:") {
		t.Fatalf("statuses should follow vocabulary order:\n%s", output)
	}
}
