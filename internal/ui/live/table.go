package live

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// defaultColumns returns the column layout for an unknown terminal width.
func defaultColumns() []table.Column {
	return columnsForWidth(100)
}

// columnsForWidth sizes the sheet column to the available width.
func columnsForWidth(width int) []table.Column {
	const fixed = 6 + 10 + 16 + 14 + 22
	sheet := max(width-fixed-12, 10)
	return []table.Column{
		{Title: "Row", Width: 6},
		{Title: "Sheet", Width: sheet},
		{Title: "ID", Width: 10},
		{Title: "Status", Width: 16},
		{Title: "Phase", Width: 14},
		{Title: "Rule", Width: 22},
	}
}

// rowsForState converts UI state into table rows, optionally keeping only
// flagged rows.
func rowsForState(state State, noColor, flaggedOnly bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		if flaggedOnly && !row.Status.IsFlagged() {
			continue
		}
		rows = append(rows, table.Row{
			formatRowNumber(row),
			formatSheet(row.Sheet),
			row.ID,
			formatStatus(row, noColor),
			formatPhase(row),
			row.Rule,
		})
	}
	return rows
}
