package api

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"ddqcheck/internal/finding"
	"ddqcheck/internal/testutil"
)

// TestIndexServesUploadPage verifies the HTML upload form at the root.
func TestIndexServesUploadPage(t *testing.T) {
	runWithTimeout(t, 2*time.Second, func() {
		srv := testutil.StartServer(t, NewHandler(Config{}))

		resp, err := http.Get(srv.BaseURL + "/")
		if err != nil {
			t.Errorf("get index: %v", err)
			return
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("expected html content type, got %q", ct)
		}

		status, body := testutil.Get(t, srv.BaseURL+"/")
		if status != http.StatusOK || !strings.Contains(string(body), `action="/results"`) {
			t.Errorf("expected upload form, got %d: %s", status, body)
		}
		if status, _ := testutil.Get(t, srv.BaseURL+"/missing"); status != http.StatusNotFound {
			t.Errorf("expected 404 for unknown path, got %d", status)
		}
		if status, _ := testutil.PostFile(t, srv.BaseURL+"/", "file", "", nil); status != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for POST /, got %d", status)
		}
	})
}

// TestResultsPageRendersRun verifies a form upload renders summary, downloads and rows.
func TestResultsPageRendersRun(t *testing.T) {
	runWithTimeout(t, 5*time.Second, func() {
		srv := testutil.StartServer(t, NewHandler(Config{TempDir: t.TempDir()}))

		status, body := testutil.PostFile(t, srv.BaseURL+"/results", "file", writeUpload(t, "ddq.xlsx"), nil)
		if status != http.StatusOK {
			t.Errorf("expected 200, got %d: %s", status, body)
			return
		}
		html := string(body)
		for _, want := range []string{
			"<li>Rows: 3</li>",
			"<li>Flagged: 1</li>",
			"<li>REJECTED: 1</li>",
			`href="data:text/csv;base64,`,
			`href="data:application/json;base64,`,
			"<td>Contact: [REDACTED]</td>",
			"<td>E-Mail?</td>",
		} {
			if !strings.Contains(html, want) {
				t.Errorf("results page missing %q", want)
			}
		}
		if strings.Contains(html, "Musterfrau") {
			t.Errorf("results page leaks the redacted name")
		}
	})
}

// TestResultsPageShowsUploadErrors verifies client errors keep their status.
func TestResultsPageShowsUploadErrors(t *testing.T) {
	runWithTimeout(t, 5*time.Second, func() {
		srv := testutil.StartServer(t, NewHandler(Config{}))

		status, body := testutil.PostFile(t, srv.BaseURL+"/results", "file", "", nil)
		if status != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", status)
		}
		if !strings.Contains(string(body), `<p class="error">`+msgNoFile+"</p>") {
			t.Errorf("expected error message in page, got %s", body)
		}
		if status, _ := testutil.Get(t, srv.BaseURL+"/results"); status != http.StatusMethodNotAllowed {
			t.Errorf("expected 405 for GET /results, got %d", status)
		}
	})
}

// TestPageEscapesContent verifies answers and errors are HTML escaped.
func TestPageEscapesContent(t *testing.T) {
	result := &validateResponse{
		RunID:   "run-1",
		Summary: finding.Summary{TotalRows: 1, ByStatus: map[finding.Status]int{finding.StatusOK: 1}},
		Report:  []map[string]any{{"sheet": "General", "row_idx": 1, "question_id": nil, "answer_text": "<b>x</b>"}},
	}
	var buf bytes.Buffer
	if err := page(pageView{Error: `<script>alert("x")</script>`, Result: result}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	if strings.Contains(html, "<script>") || strings.Contains(html, "<b>x</b>") {
		t.Fatalf("page contains unescaped content: %s", html)
	}
	if !strings.Contains(html, "&lt;b&gt;x&lt;/b&gt;") {
		t.Fatalf("expected escaped answer, got %s", html)
	}
}
