package pipeline

import (
	"time"

	"ddqcheck/internal/finding"
)

// RowEventType identifies a row status update for observers.
type RowEventType string

const (
	// RowEvaluated marks a row the rule engine has decided.
	RowEvaluated RowEventType = "evaluated"
	// RowRefining marks a flagged row sent to the model.
	RowRefining RowEventType = "refining"
	// RowRefined marks a row whose model reply was applied.
	RowRefined RowEventType = "refined"
	// RowRefineFailed marks a row whose model call failed.
	RowRefineFailed RowEventType = "refine_failed"
)

// RowEvent carries a single status update for a row.
type RowEvent struct {
	Index      int
	Sheet      string
	RowIdx     int
	QuestionID string
	Type       RowEventType
	Status     finding.Status
	Rule       string
	Error      string
	EmittedAt  time.Time
}

// RunObserver receives run lifecycle events for UI or logging. Row events may
// arrive from several goroutines at once.
type RunObserver interface {
	// OnRunStart signals that rows were extracted and evaluation begins.
	OnRunStart(runID string, source string, total int)
	// OnRowEvent delivers a row status update.
	OnRowEvent(event RowEvent)
	// OnRunEnd signals run completion.
	OnRunEnd(result Result)
}

func rowEvent(index int, f finding.Finding, eventType RowEventType) RowEvent {
	return RowEvent{
		Index:      index,
		Sheet:      f.Sheet,
		RowIdx:     f.RowIdx,
		QuestionID: f.ID(),
		Type:       eventType,
		Status:     f.Status,
		EmittedAt:  time.Now(),
	}
}
