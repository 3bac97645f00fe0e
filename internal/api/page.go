package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"

	"github.com/a-h/templ"
)

const pageHead = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>DDQ Validator</title>
    <style>
      body { font-family: sans-serif; margin: 2rem; }
      table { border-collapse: collapse; width: 100%; }
      th, td { border: 1px solid #ccc; padding: 0.3rem 0.5rem; text-align: left; vertical-align: top; }
      .error { color: #b00020; }
    </style>
  </head>
  <body>
    <h1>DDQ Validator</h1>
`

const pageTail = `  </body>
</html>
`

const uploadForm = `    <form method="post" action="/results" enctype="multipart/form-data">
      <p><label>Filled questionnaire (XLSX or PDF) <input type="file" name="file" accept=".xlsx,.pdf" required /></label></p>
      <p><label><input type="checkbox" name="use_llm" value="true" /> Refine flagged rows with the LLM</label></p>
      <p><label>LLM model <input type="text" name="llm_model" /></label></p>
      <p><label>Max rows per sheet <input type="number" name="max_rows_per_sheet" min="0" value="0" /></label></p>
      <p><button type="submit">Validate</button></p>
    </form>
    <p>PDF extraction is best-effort; text-based PDFs work best.</p>
`

// reportColumns are the finding fields shown in the results table.
var reportColumns = []struct{ key, title string }{
	{"sheet", "Sheet"},
	{"row_idx", "Row"},
	{"question_id", "ID"},
	{"question_text", "Question"},
	{"answer_text", "Answer"},
	{"status", "Status"},
	{"reason", "Reason"},
}

// pageView is the state rendered by the upload page.
type pageView struct {
	Error  string
	Result *validateResponse
}

// page renders the upload form followed by an error or the results of a run.
func page(view pageView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ew := &errWriter{w: w}
		ew.write(pageHead)
		ew.write(uploadForm)
		if view.Error != "" {
			ew.write(`    <p class="error">` + templ.EscapeString(view.Error) + "</p>\n")
		}
		if view.Result != nil {
			writeResults(ew, view.Result)
		}
		ew.write(pageTail)
		return ew.err
	})
}

func writeResults(ew *errWriter, result *validateResponse) {
	ew.write("    <h2>Summary</h2>\n    <ul>\n")
	ew.write(fmt.Sprintf("      <li>Run: %s</li>\n", templ.EscapeString(result.RunID)))
	ew.write(fmt.Sprintf("      <li>Rows: %d</li>\n", result.Summary.TotalRows))
	ew.write(fmt.Sprintf("      <li>Flagged: %d</li>\n", result.Summary.TotalFlagged))
	for _, status := range slices.Sorted(maps.Keys(result.Summary.ByStatus)) {
		ew.write(fmt.Sprintf("      <li>%s: %d</li>\n", templ.EscapeString(string(status)), result.Summary.ByStatus[status]))
	}
	ew.write("    </ul>\n")

	ew.write("    <h2>Downloads</h2>\n    <p>\n")
	ew.write(downloadLink("report.csv", "text/csv", result.ReportCSV))
	ew.write(downloadLink("summary.json", "application/json", result.SummaryJSON))
	ew.write("    </p>\n")

	ew.write("    <h2>All items</h2>\n    <table>\n      <tr>")
	for _, col := range reportColumns {
		ew.write("<th>" + col.title + "</th>")
	}
	ew.write("</tr>\n")
	for _, record := range result.Report {
		ew.write("      <tr>")
		for _, col := range reportColumns {
			ew.write("<td>" + templ.EscapeString(cellText(record[col.key])) + "</td>")
		}
		ew.write("</tr>\n")
	}
	ew.write("    </table>\n")
}

func downloadLink(name, mime, content string) string {
	href := "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString([]byte(content))
	return fmt.Sprintf("      <a download=\"%s\" href=\"%s\">Download %s</a>\n",
		templ.EscapeString(name), templ.EscapeString(href), templ.EscapeString(name))
}

func cellText(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

// errWriter keeps the first write error so the page can be rendered in sequence.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
		return
	}
	templ.Handler(page(pageView{})).ServeHTTP(w, r)
}

// handleResults validates a form upload and renders the results page.
func (h *handler) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
		return
	}
	response, uerr := h.validateUpload(w, r)
	if uerr != nil {
		templ.Handler(page(pageView{Error: uerr.detail}), templ.WithStatus(uerr.status)).ServeHTTP(w, r)
		return
	}
	templ.Handler(page(pageView{Result: &response})).ServeHTTP(w, r)
}
