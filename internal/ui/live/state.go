package live

import (
	"time"

	"ddqcheck/internal/finding"
)

// Phase is the processing stage of a row.
type Phase string

const (
	PhasePending      Phase = "pending"
	PhaseEvaluated    Phase = "evaluated"
	PhaseRefining     Phase = "refining"
	PhaseRefined      Phase = "refined"
	PhaseRefineFailed Phase = "refine failed"
)

// RowState holds UI state for a single questionnaire row.
type RowState struct {
	Index     int
	Sheet     string
	RowIdx    int
	ID        string
	Phase     Phase
	Status    finding.Status
	Rule      string
	Error     string
	UpdatedAt time.Time
}

// StatusCounts aggregates rows by phase and status.
type StatusCounts struct {
	Pending       int
	Refining      int
	RefineFailed  int
	OK            int
	Incomplete    int
	Rejected      int
	NeedsEvidence int
	Skipped       int
	Flagged       int
}

// State captures the live UI state for a validation run.
type State struct {
	RunID     string
	Source    string
	Total     int
	StartedAt time.Time
	Finished  bool
	ReportCSV string
	LastEvent string
	Rows      []RowState
	Counts    StatusCounts
}
