// Package pipeline runs a full validation: extract, redact, evaluate, refine,
// report, and record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ddqcheck/internal/extract"
	"ddqcheck/internal/finding"
	"ddqcheck/internal/llm"
	"ddqcheck/internal/question"
	"ddqcheck/internal/redact"
	"ddqcheck/internal/report"
	"ddqcheck/internal/rules"
	"ddqcheck/internal/store"
)

// RunRecorder persists completed runs.
type RunRecorder interface {
	SaveRun(ctx context.Context, run store.Run, findings []finding.Finding) error
}

// Dependencies allows injecting loaders and clocks for a run.
type Dependencies struct {
	Load  func(path string, opts extract.Options) ([]question.Row, error)
	RunID func() (string, error)
	Now   func() time.Time
}

// Params configures a run.
type Params struct {
	Source    string
	OutputDir string
	Extract   extract.Options
	Redact    bool
	Workers   int
	Engine    *rules.Engine
	Refiner   *llm.Refiner
	Recorder  RunRecorder
	Observer  RunObserver
	Logger    *zap.Logger
	Tracer    trace.Tracer
	Meter     metric.Meter
	Deps      Dependencies
}

// Result describes a completed run.
type Result struct {
	RunID      string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time
	Findings   []finding.Finding
	Report     report.Result
	// Model is set when the refiner was enabled.
	Model string
	// RefineErr aggregates row-local refinement failures.
	RefineErr error
}

// Summary returns the status histogram of the run.
func (r Result) Summary() finding.Summary {
	return r.Report.Summary
}

// Run executes a validation and writes report.csv and summary.json to OutputDir.
func Run(ctx context.Context, params Params) (result Result, err error) {
	if params.Source == "" {
		return Result{}, errors.New("source file is required")
	}
	if params.OutputDir == "" {
		return Result{}, errors.New("output directory is required")
	}
	engine := params.Engine
	if engine == nil {
		engine, err = rules.NewEngine(rules.DefaultConfig())
		if err != nil {
			return Result{}, err
		}
	}
	refiner := params.Refiner
	if refiner == nil {
		refiner = llm.Disabled()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	load := params.Deps.Load
	if load == nil {
		load = extract.Load
	}
	now := params.Deps.Now
	if now == nil {
		now = time.Now
	}
	newRunID := params.Deps.RunID
	if newRunID == nil {
		newRunID = NewRunID
	}
	inst := newInstruments(params.Meter)

	runID, err := newRunID()
	if err != nil {
		return Result{}, err
	}
	ctx, span := tracerOrDefault(params.Tracer).Start(ctx, "pipeline.Run", trace.WithAttributes(
		attribute.String("ddqcheck.run_id", runID),
		attribute.String("ddqcheck.source", filepath.Base(params.Source)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	logger = logger.With(zap.String("run_id", runID))
	startedAt := now()

	rows, err := loadRows(ctx, params, load)
	if err != nil {
		return Result{}, err
	}
	if params.Redact {
		rows = redact.Rows(rows)
	}
	logger.Info("run started", zap.String("source", params.Source), zap.Int("rows", len(rows)), zap.Bool("redact", params.Redact))
	if params.Observer != nil {
		params.Observer.OnRunStart(runID, params.Source, len(rows))
	}

	evals, err := evaluate(ctx, params, engine, rows, inst)
	if err != nil {
		return Result{}, err
	}
	results := Findings(evals)

	var refineErr error
	if refiner.Enabled() {
		results, refineErr = refine(ctx, params, refiner, results, inst, logger)
	}

	_, writeSpan := tracerOrDefault(params.Tracer).Start(ctx, "report.Write")
	written, err := report.Write(results, params.OutputDir)
	writeSpan.End()
	if err != nil {
		return Result{}, err
	}

	result = Result{
		RunID:      runID,
		Source:     params.Source,
		StartedAt:  startedAt,
		FinishedAt: now(),
		Findings:   results,
		Report:     written,
		RefineErr:  refineErr,
	}
	if refiner.Enabled() {
		result.Model = refiner.Model()
	}

	if params.Recorder != nil {
		if err := params.Recorder.SaveRun(ctx, storeRun(result), results); err != nil {
			return Result{}, fmt.Errorf("record run: %w", err)
		}
	}

	inst.runs.Add(ctx, 1)
	span.SetAttributes(
		attribute.Int("ddqcheck.rows", written.Summary.TotalRows),
		attribute.Int("ddqcheck.flagged", written.Summary.TotalFlagged),
	)
	logger.Info("run finished",
		zap.Int("rows", written.Summary.TotalRows),
		zap.Int("flagged", written.Summary.TotalFlagged),
		zap.Duration("elapsed", result.FinishedAt.Sub(startedAt)),
		zap.String("report_csv", written.ReportCSV),
	)
	if params.Observer != nil {
		params.Observer.OnRunEnd(result)
	}
	return result, nil
}

func loadRows(ctx context.Context, params Params, load func(string, extract.Options) ([]question.Row, error)) ([]question.Row, error) {
	_, span := tracerOrDefault(params.Tracer).Start(ctx, "extract.Load")
	defer span.End()
	rows, err := load(params.Source, params.Extract)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(rows) == 0 {
		return nil, extract.ErrNoRows
	}
	span.SetAttributes(attribute.Int("ddqcheck.rows", len(rows)))
	return rows, nil
}

func evaluate(ctx context.Context, params Params, engine *rules.Engine, rows []question.Row, inst instruments) ([]Evaluation, error) {
	ctx, span := tracerOrDefault(params.Tracer).Start(ctx, "rules.Evaluate", trace.WithAttributes(
		attribute.Int("ddqcheck.workers", params.Workers),
	))
	defer span.End()
	return Evaluate(ctx, engine, rows, params.Workers, func(i int, e Evaluation) {
		inst.rows.Add(ctx, 1, metric.WithAttributes(attribute.String("status", e.Finding.Status.String())))
		if e.Finding.Flagged() {
			inst.flagged.Add(ctx, 1, metric.WithAttributes(attribute.String("rule", e.Rule)))
		}
		if params.Observer != nil {
			event := rowEvent(i, e.Finding, RowEvaluated)
			event.Rule = e.Rule
			params.Observer.OnRowEvent(event)
		}
	})
}

func refine(ctx context.Context, params Params, refiner *llm.Refiner, results []finding.Finding, inst instruments, logger *zap.Logger) ([]finding.Finding, error) {
	ctx, span := tracerOrDefault(params.Tracer).Start(ctx, "llm.Refine", trace.WithAttributes(
		attribute.String("ddqcheck.llm_model", refiner.Model()),
	))
	defer span.End()

	index := make(map[question.Key]int, len(results))
	for i, f := range results {
		index[f.Key()] = i
	}
	flagged := Flagged(results)
	if len(flagged) == 0 {
		return results, nil
	}
	if params.Observer != nil {
		for _, f := range flagged {
			if llm.Eligible(f) {
				params.Observer.OnRowEvent(rowEvent(index[f.Key()], f, RowRefining))
			}
		}
	}

	refined, refineErr := refiner.Refine(ctx, flagged)
	for i, f := range refined {
		if _, failed := f.Detail("llm_error"); failed {
			inst.refined.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
			emitRefined(params.Observer, index[f.Key()], f, RowRefineFailed)
			continue
		}
		if _, touched := f.Detail("llm"); touched {
			if _, before := flagged[i].Detail("llm"); !before {
				inst.refined.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "ok")))
				emitRefined(params.Observer, index[f.Key()], f, RowRefined)
			}
		}
	}
	if refineErr != nil {
		span.RecordError(refineErr)
		logger.Warn("llm refinement finished with errors", zap.Error(refineErr))
	}
	return Merge(results, refined), refineErr
}

func emitRefined(observer RunObserver, index int, f finding.Finding, eventType RowEventType) {
	if observer == nil {
		return
	}
	event := rowEvent(index, f, eventType)
	if value, ok := f.Detail("llm_error"); ok {
		event.Error = fmt.Sprint(value)
	}
	observer.OnRowEvent(event)
}

func storeRun(result Result) store.Run {
	return store.Run{
		ID:           result.RunID,
		Source:       result.Source,
		StartedAt:    result.StartedAt,
		FinishedAt:   result.FinishedAt,
		TotalRows:    result.Report.Summary.TotalRows,
		TotalFlagged: result.Report.Summary.TotalFlagged,
		Model:        result.Model,
		ReportCSV:    result.Report.ReportCSV,
		SummaryJSON:  result.Report.SummaryJSON,
	}
}
