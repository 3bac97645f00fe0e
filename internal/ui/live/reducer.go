package live

import (
	"fmt"

	"ddqcheck/internal/finding"
	"ddqcheck/internal/pipeline"
)

// Start resets the state for a run with total rows, all pending.
func Start(state State, runID, source string, total int) State {
	state.RunID = runID
	state.Source = source
	state.Total = total
	state.Finished = false
	state.LastEvent = ""
	state.Rows = make([]RowState, max(total, 0))
	for i := range state.Rows {
		state.Rows[i] = RowState{Index: i, Phase: PhasePending}
	}
	state.Counts = recount(state.Rows)
	return state
}

// Reduce applies a row event to the UI state.
func Reduce(state State, event pipeline.RowEvent) State {
	state = ensureRow(state, event.Index)
	state = applyRowEvent(state, event)
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// Finish marks the run complete.
func Finish(state State, summary finding.Summary, reportCSV string) State {
	state.Finished = true
	state.ReportCSV = reportCSV
	state.LastEvent = fmt.Sprintf("done: %d of %d rows flagged", summary.TotalFlagged, summary.TotalRows)
	return state
}

// ensureRow grows the state rows to include the target index.
func ensureRow(state State, index int) State {
	if index < 0 || index < len(state.Rows) {
		return state
	}
	rows := make([]RowState, index+1)
	copy(rows, state.Rows)
	for i := len(state.Rows); i < len(rows); i++ {
		rows[i] = RowState{Index: i, Phase: PhasePending}
	}
	state.Rows = rows
	if state.Total < len(rows) {
		state.Total = len(rows)
	}
	return state
}

// applyRowEvent updates a row with the given event.
func applyRowEvent(state State, event pipeline.RowEvent) State {
	if event.Index < 0 || event.Index >= len(state.Rows) {
		return state
	}
	row := state.Rows[event.Index]
	row.Sheet = event.Sheet
	row.RowIdx = event.RowIdx
	row.ID = event.QuestionID
	row.UpdatedAt = event.EmittedAt
	if event.Status != "" {
		row.Status = event.Status
	}
	switch event.Type {
	case pipeline.RowEvaluated:
		row.Phase = PhaseEvaluated
		row.Rule = event.Rule
	case pipeline.RowRefining:
		row.Phase = PhaseRefining
	case pipeline.RowRefined:
		row.Phase = PhaseRefined
		row.Error = ""
	case pipeline.RowRefineFailed:
		row.Phase = PhaseRefineFailed
		row.Error = event.Error
	}
	state.Rows[event.Index] = row
	return state
}

// recount recomputes counts for the current rows.
func recount(rows []RowState) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Phase {
		case PhasePending:
			counts.Pending++
			continue
		case PhaseRefining:
			counts.Refining++
		case PhaseRefineFailed:
			counts.RefineFailed++
		}
		switch row.Status {
		case finding.StatusOK:
			counts.OK++
		case finding.StatusIncomplete:
			counts.Incomplete++
		case finding.StatusRejected:
			counts.Rejected++
		case finding.StatusNeedsEvidence:
			counts.NeedsEvidence++
		case finding.StatusSkipped:
			counts.Skipped++
		}
		if row.Status.IsFlagged() {
			counts.Flagged++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event pipeline.RowEvent) string {
	label := formatLocation(event.Sheet, event.RowIdx)
	switch event.Type {
	case pipeline.RowEvaluated:
		if event.Status.IsFlagged() {
			if event.Rule != "" {
				return fmt.Sprintf("%s %s (%s)", label, event.Status, event.Rule)
			}
			return fmt.Sprintf("%s %s", label, event.Status)
		}
	case pipeline.RowRefining:
		return label + " sent to model"
	case pipeline.RowRefined:
		return fmt.Sprintf("%s refined to %s", label, event.Status)
	case pipeline.RowRefineFailed:
		return fmt.Sprintf("%s refine failed: %s", label, event.Error)
	}
	return ""
}
