package live

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the run header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	line := "Run " + state.RunID
	if state.Source != "" {
		line += " | File: " + filepath.Base(state.Source)
	}
	if !state.StartedAt.IsZero() {
		line += " | Elapsed: " + now.Sub(state.StartedAt).Round(100*time.Millisecond).String()
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the status counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Rows: " + fmtInt(state.Total) +
		" Pending: " + fmtInt(counts.Pending) +
		" OK: " + fmtInt(counts.OK) +
		" Skipped: " + fmtInt(counts.Skipped) +
		" Incomplete: " + fmtInt(counts.Incomplete) +
		" Rejected: " + fmtInt(counts.Rejected) +
		" Evidence: " + fmtInt(counts.NeedsEvidence) +
		" Flagged: " + fmtInt(counts.Flagged)
	if counts.Refining > 0 || counts.RefineFailed > 0 {
		line += " | LLM: " + fmtInt(counts.Refining) + " running, " + fmtInt(counts.RefineFailed) + " failed"
	}
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderFooter renders the last event line and the key hints.
func renderFooter(state State, flaggedOnly, noColor bool) string {
	hint := "f: flagged only | q: quit"
	if flaggedOnly {
		hint = "f: all rows | q: quit"
	}
	if state.LastEvent == "" {
		return stylize(hint, noColor, lipgloss.Color("244"))
	}
	line := "Last event: " + state.LastEvent
	if state.Finished && state.ReportCSV != "" {
		line += " | " + state.ReportCSV
	}
	return stylize(line+" | "+hint, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
