package live

import (
	"ddqcheck/internal/finding"
	"ddqcheck/internal/pipeline"
)

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventRunStart signals that rows were extracted.
	EventRunStart EventKind = iota
	// EventRow delivers a row status update.
	EventRow
	// EventRunEnd signals run completion.
	EventRunEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind      EventKind
	RunID     string
	Source    string
	Total     int
	Row       pipeline.RowEvent
	Summary   finding.Summary
	ReportCSV string
}
