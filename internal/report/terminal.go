package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ddqcheck/internal/finding"
)

var statusColors = map[finding.Status]lipgloss.Color{
	finding.StatusOK:            lipgloss.Color("42"),
	finding.StatusSkipped:       lipgloss.Color("244"),
	finding.StatusIncomplete:    lipgloss.Color("214"),
	finding.StatusRejected:      lipgloss.Color("196"),
	finding.StatusNeedsEvidence: lipgloss.Color("33"),
}

// RenderSummary prints the end-of-run summary. Styling is skipped when noColor is set.
func RenderSummary(w io.Writer, result Result, noColor bool) error {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(stylize("DDQ Validation Complete", noColor, lipgloss.NewStyle().Bold(true)))
	b.WriteString("\n")
	flagged := stylize(fmtInt(result.Summary.TotalFlagged), noColor, lipgloss.NewStyle().Bold(true))
	fmt.Fprintf(&b, "Flagged rows: %s (%s%% of %d)\n", flagged,
		formatShare(result.Summary.TotalFlagged, result.Summary.TotalRows), result.Summary.TotalRows)
	b.WriteString("By status:\n")
	for _, status := range orderedStatuses(result.Summary) {
		label := stylize(status.String(), noColor, lipgloss.NewStyle().Foreground(statusColors[status]))
		fmt.Fprintf(&b, "  - %s: %d\n", label, result.Summary.Count(status))
	}
	b.WriteString("\nOutputs:\n")
	fmt.Fprintf(&b, "  - %s\n", result.ReportCSV)
	fmt.Fprintf(&b, "  - %s\n", result.SummaryJSON)
	_, err := io.WriteString(w, b.String())
	return err
}

// orderedStatuses returns the statuses present in the summary in vocabulary order.
func orderedStatuses(summary finding.Summary) []finding.Status {
	out := make([]finding.Status, 0, len(summary.ByStatus))
	for _, status := range finding.Statuses {
		if summary.Count(status) > 0 {
			out = append(out, status)
		}
	}
	return out
}

func stylize(text string, noColor bool, style lipgloss.Style) string {
	if noColor {
		return text
	}
	return style.Render(text)
}
