//go:build cucumber

package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/cucumber/godog"

	"ddqcheck/internal/finding"
	"ddqcheck/internal/pipeline"
	"ddqcheck/internal/ui/live"
)

// TestLiveUIScenarios runs the live UI feature scenarios.
func TestLiveUIScenarios(t *testing.T) {
	featurePath := filepath.Join("testdata", "features", "live-ui.feature")
	suite := godog.TestSuite{
		Name:                "live-ui",
		ScenarioInitializer: InitializeLiveUIScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{featurePath},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeLiveUIScenario wires steps for live UI scenarios.
func InitializeLiveUIScenario(ctx *godog.ScenarioContext) {
	state := &liveUIScenarioState{}
	orig := isTerminal
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		isTerminal = func(io.Writer) bool { return state.isTTY }
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		isTerminal = orig
		return ctx, nil
	})

	ctx.Step(`^a TTY stdout$`, state.givenTTY)
	ctx.Step(`^stdout is not a TTY$`, state.givenNonTTY)
	ctx.Step(`^a questionnaire with (\d+) rows$`, state.givenRows)
	ctx.Step(`^a flagged row sent to the model$`, state.givenRefiningRow)
	ctx.Step(`^I run "([^"]+)"$`, state.whenIRun)
	ctx.Step(`^a live UI is shown$`, state.thenLiveUIShown)
	ctx.Step(`^the UI lists each row with a status$`, state.thenRowStatuses)
	ctx.Step(`^the UI shows that row as refining$`, state.thenRowRefining)
	ctx.Step(`^the output uses plain summary text$`, state.thenPlainOutput)
}

type liveUIScenarioState struct {
	isTTY    bool
	decision uiModeDecision
	uiState  live.State
}

func (s *liveUIScenarioState) reset() {
	s.isTTY = false
	s.decision = uiModeDecision{}
	s.uiState = live.State{}
}

func (s *liveUIScenarioState) givenTTY() error {
	s.isTTY = true
	return nil
}

func (s *liveUIScenarioState) givenNonTTY() error {
	s.isTTY = false
	return nil
}

// givenRows evaluates count rows as OK.
func (s *liveUIScenarioState) givenRows(count int) error {
	s.uiState = live.Start(s.uiState, "run-1", "ddq.xlsx", count)
	now := time.Now()
	for i := 0; i < count; i++ {
		s.uiState = live.Reduce(s.uiState, pipeline.RowEvent{
			Index:     i,
			Sheet:     "General",
			RowIdx:    i + 2,
			Type:      pipeline.RowEvaluated,
			Status:    finding.StatusOK,
			Rule:      "ok",
			EmittedAt: now,
		})
	}
	return nil
}

// givenRefiningRow flags one row and hands it to the model.
func (s *liveUIScenarioState) givenRefiningRow() error {
	s.uiState = live.Start(s.uiState, "run-1", "ddq.xlsx", 1)
	now := time.Now()
	event := pipeline.RowEvent{
		Sheet:     "General",
		RowIdx:    2,
		Type:      pipeline.RowEvaluated,
		Status:    finding.StatusIncomplete,
		Rule:      "too_short",
		EmittedAt: now,
	}
	s.uiState = live.Reduce(s.uiState, event)
	event.Type = pipeline.RowRefining
	s.uiState = live.Reduce(s.uiState, event)
	return nil
}

func (s *liveUIScenarioState) whenIRun(_ string) error {
	decision, err := resolveUIMode("auto", false, nil)
	if err != nil {
		return err
	}
	s.decision = decision
	return nil
}

func (s *liveUIScenarioState) thenLiveUIShown() error {
	if !s.decision.useLive {
		return fmt.Errorf("expected live UI to be enabled")
	}
	return nil
}

func (s *liveUIScenarioState) thenRowStatuses() error {
	if len(s.uiState.Rows) == 0 {
		return fmt.Errorf("expected rows")
	}
	for _, row := range s.uiState.Rows {
		if row.Status == "" {
			return fmt.Errorf("row %d has no status", row.Index)
		}
	}
	return nil
}

func (s *liveUIScenarioState) thenRowRefining() error {
	if len(s.uiState.Rows) == 0 || s.uiState.Rows[0].Phase != live.PhaseRefining {
		return fmt.Errorf("expected row to be refining")
	}
	if s.uiState.Counts.Refining != 1 {
		return fmt.Errorf("refining count = %d, want 1", s.uiState.Counts.Refining)
	}
	return nil
}

func (s *liveUIScenarioState) thenPlainOutput() error {
	if s.decision.useLive {
		return fmt.Errorf("expected plain output")
	}
	return nil
}
