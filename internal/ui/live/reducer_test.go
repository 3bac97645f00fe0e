package live

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ddqcheck/internal/finding"
	"ddqcheck/internal/pipeline"
	"ddqcheck/internal/testutil"
)

// TestReduceRowLifecycle verifies evaluation and refinement transitions are recorded.
func TestReduceRowLifecycle(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		state := Start(State{}, "run-1", "filled.xlsx", 2)
		if state.Counts.Pending != 2 {
			t.Errorf("expected two pending rows, got %d", state.Counts.Pending)
			return
		}
		evaluated := event(0, pipeline.RowEvaluated, finding.StatusRejected)
		evaluated.Rule = "empty-answer"
		state = Reduce(state, evaluated)
		state = Reduce(state, event(1, pipeline.RowEvaluated, finding.StatusOK))
		if state.Counts.Rejected != 1 || state.Counts.OK != 1 || state.Counts.Flagged != 1 {
			t.Errorf("unexpected counts after evaluation: %+v", state.Counts)
			return
		}
		if state.Rows[0].Rule != "empty-answer" {
			t.Errorf("expected rule to be recorded, got %q", state.Rows[0].Rule)
		}

		state = Reduce(state, event(0, pipeline.RowRefining, finding.StatusRejected))
		if state.Counts.Refining != 1 {
			t.Errorf("expected refining count, got %d", state.Counts.Refining)
		}
		state = Reduce(state, event(0, pipeline.RowRefined, finding.StatusOK))
		row := state.Rows[0]
		if row.Phase != PhaseRefined || row.Status != finding.StatusOK {
			t.Errorf("unexpected row after refinement: %+v", row)
		}
		if row.Rule != "empty-answer" {
			t.Errorf("refinement should keep the deciding rule, got %q", row.Rule)
		}
		if state.Counts.Flagged != 0 || state.Counts.OK != 2 {
			t.Errorf("unexpected counts after refinement: %+v", state.Counts)
		}
	})
}

// TestReduceRefineFailure verifies model errors are stored and counted.
func TestReduceRefineFailure(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		state := Start(State{}, "run-1", "filled.xlsx", 1)
		failed := event(0, pipeline.RowRefineFailed, finding.StatusIncomplete)
		failed.Error = "quota exhausted"
		state = Reduce(state, failed)
		if state.Rows[0].Error != "quota exhausted" || state.Counts.RefineFailed != 1 {
			t.Errorf("expected failure to be recorded: %+v", state)
		}
		if !strings.Contains(state.LastEvent, "quota exhausted") {
			t.Errorf("expected footer to mention the error, got %q", state.LastEvent)
		}
	})
}

// TestReduceGrowsRows verifies events beyond the announced total are kept.
func TestReduceGrowsRows(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		state := Reduce(State{}, event(2, pipeline.RowEvaluated, finding.StatusSkipped))
		if len(state.Rows) != 3 || state.Total != 3 {
			t.Errorf("expected three rows, got %d (total %d)", len(state.Rows), state.Total)
		}
		if state.Counts.Pending != 2 || state.Counts.Skipped != 1 {
			t.Errorf("unexpected counts: %+v", state.Counts)
		}
		state = Reduce(state, event(-1, pipeline.RowEvaluated, finding.StatusOK))
		if len(state.Rows) != 3 {
			t.Errorf("negative index should be ignored")
		}
	})
}

// TestModelAppliesEvents verifies the model view reflects streamed events.
func TestModelAppliesEvents(t *testing.T) {
	runWithTimeout(t, time.Second, func() {
		model := NewModel(nil, Options{NoColor: true})
		model = applyEvent(model, Event{Kind: EventRunStart, RunID: "run-7", Source: "/tmp/filled.xlsx", Total: 1})
		model = applyEvent(model, Event{Kind: EventRow, Row: event(0, pipeline.RowEvaluated, finding.StatusNeedsEvidence)})
		model = applyEvent(model, Event{
			Kind:      EventRunEnd,
			Summary:   finding.Summary{TotalRows: 1, TotalFlagged: 1},
			ReportCSV: "output/report.csv",
		})
		state := model.State()
		if !state.Finished || state.Counts.NeedsEvidence != 1 {
			t.Errorf("unexpected state: %+v", state)
		}
		view := model.View()
		for _, want := range []string{"Run run-7", "File: filled.xlsx", "Evidence: 1", "1 of 1 rows flagged", "output/report.csv"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q:\n%s", want, view)
			}
		}
	})
}

// TestModelFlaggedFilter verifies the f key hides rows that passed.
func TestModelFlaggedFilter(t *testing.T) {
	model := NewModel(nil, Options{NoColor: true})
	model = applyEvent(model, Event{Kind: EventRunStart, RunID: "run-8", Total: 3})
	model = applyEvent(model, Event{Kind: EventRow, Row: event(0, pipeline.RowEvaluated, finding.StatusOK)})
	model = applyEvent(model, Event{Kind: EventRow, Row: event(1, pipeline.RowEvaluated, finding.StatusRejected)})
	if got := len(model.table.Rows()); got != 3 {
		t.Fatalf("expected 3 table rows, got %d", got)
	}
	if got := model.table.Cursor(); got != 1 {
		t.Fatalf("expected cursor on the last changed row, got %d", got)
	}

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	filtered := updated.(Model)
	if got := len(filtered.table.Rows()); got != 1 {
		t.Fatalf("expected 1 flagged row, got %d", got)
	}
	if !strings.Contains(filtered.View(), "f: all rows") {
		t.Fatalf("expected filter hint in view")
	}

	updated, _ = filtered.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	if got := len(updated.(Model).table.Rows()); got != 3 {
		t.Fatalf("expected all rows back, got %d", got)
	}
}

// TestControllerDropsEventsAfterClose verifies a nil or closed controller never blocks.
func TestControllerDropsEventsAfterClose(t *testing.T) {
	var nilController *Controller
	nilController.OnRowEvent(pipeline.RowEvent{})
	nilController.Close()
	nilController.Wait()
}

// event builds a RowEvent for testing.
func event(index int, kind pipeline.RowEventType, status finding.Status) pipeline.RowEvent {
	return pipeline.RowEvent{
		Index:      index,
		Sheet:      "General",
		RowIdx:     index + 2,
		QuestionID: "1." + fmtInt(index+1),
		Type:       kind,
		Status:     status,
		EmittedAt:  time.Now(),
	}
}

// runWithTimeout executes a test body with a timeout.
func runWithTimeout(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()
	ctx := testutil.Context(t, timeout)
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatalf("test timed out")
	}
}
