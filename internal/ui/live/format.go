package live

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ddqcheck/internal/finding"
)

// formatRowNumber returns the sheet row number or the position for pending rows.
func formatRowNumber(row RowState) string {
	if row.RowIdx > 0 {
		return fmtInt(row.RowIdx)
	}
	return "#" + fmtInt(row.Index+1)
}

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatLocation names a row by sheet and row number.
func formatLocation(sheet string, rowIdx int) string {
	if sheet == "" {
		return "row " + fmtInt(rowIdx)
	}
	return sheet + " row " + fmtInt(rowIdx)
}

// formatSheet truncates sheet names for display.
func formatSheet(sheet string) string {
	normalized := strings.Join(strings.Fields(sheet), " ")
	const limit = 40
	runes := []rune(normalized)
	if len(runes) <= limit {
		return normalized
	}
	return string(runes[:limit-3]) + "..."
}

// formatStatus renders the status column for a row.
func formatStatus(row RowState, noColor bool) string {
	if row.Phase == PhasePending || row.Status == "" {
		return stylizeStatus("...", "", noColor)
	}
	return stylizeStatus(row.Status.String(), row.Status, noColor)
}

// formatPhase renders the phase column. Evaluated rows show nothing.
func formatPhase(row RowState) string {
	switch row.Phase {
	case PhaseEvaluated:
		return ""
	case PhaseRefineFailed:
		if row.Error != "" {
			return "llm error"
		}
	}
	return string(row.Phase)
}

// stylizeStatus applies status coloring when enabled.
func stylizeStatus(text string, status finding.Status, noColor bool) string {
	if noColor {
		return text
	}
	return statusStyle(status).Render(text)
}

// statusStyle selects a style for a given status.
func statusStyle(status finding.Status) lipgloss.Style {
	color := lipgloss.Color("244")
	switch status {
	case finding.StatusOK:
		color = lipgloss.Color("42")
	case finding.StatusIncomplete:
		color = lipgloss.Color("220")
	case finding.StatusRejected:
		color = lipgloss.Color("196")
	case finding.StatusNeedsEvidence:
		color = lipgloss.Color("39")
	case finding.StatusSkipped:
		color = lipgloss.Color("246")
	}
	return lipgloss.NewStyle().Foreground(color)
}
