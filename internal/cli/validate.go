package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ddqcheck/internal/config"
	"ddqcheck/internal/extract"
	"ddqcheck/internal/llm"
	"ddqcheck/internal/pipeline"
	"ddqcheck/internal/report"
	"ddqcheck/internal/rules"
	"ddqcheck/internal/store"
	"ddqcheck/internal/ui/live"
)

// Test seams for the pipeline and the live UI.
var (
	runPipeline = pipeline.Run
	startLiveUI = func(opts *rootOptions, noColor bool) liveUI {
		return live.Launch(opts.stdout, live.Options{NoColor: noColor})
	}
)

// liveUI is the observer view of the live controller.
type liveUI interface {
	pipeline.RunObserver
	Close()
	Wait()
}

type validateOptions struct {
	filled    string
	outDir    string
	useLLM    bool
	model     string
	maxRows   int
	reference string
	uiMode    string
	dbPath    string
	noStore   bool
	redact    bool
	workers   int
	noColor   bool
}

func newValidateCommand(opts *rootOptions) *cobra.Command {
	v := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate --filled <file.xlsx|file.pdf>",
		Short: "Validate a filled questionnaire and write report.csv and summary.json",
		Example: `  ddqcheck validate --filled answers.xlsx
  ddqcheck validate --filled answers.pdf --out-dir reports/acme --use-llm
  ddqcheck validate --filled answers.xlsx --reference template.xlsx --ui plain`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts, v)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&v.filled, "filled", "", "Filled questionnaire (.xlsx or .pdf)")
	flags.StringVar(&v.outDir, "out-dir", "", "Report directory (default from config: output)")
	flags.BoolVar(&v.useLLM, "use-llm", false, "Refine flagged rows with the configured language model")
	flags.StringVar(&v.model, "llm-model", "", "Model name override for --use-llm")
	flags.IntVar(&v.maxRows, "max-rows-per-sheet", 0, "Read at most N rows per sheet (0 = no limit)")
	flags.StringVar(&v.reference, "reference", "", "Reference workbook supplying the expected-answer column")
	flags.StringVar(&v.uiMode, "ui", "auto", "Progress display: auto, live, or plain")
	flags.StringVar(&v.dbPath, "db", "", "DuckDB run history file (default from config)")
	flags.BoolVar(&v.noStore, "no-store", false, "Do not record the run in the history database")
	flags.BoolVar(&v.redact, "redact", false, "Redact personal names before evaluation")
	flags.IntVar(&v.workers, "workers", 0, "Rule evaluation goroutines (default from config)")
	flags.BoolVar(&v.noColor, "no-color", false, "Disable colored output")
	_ = cmd.MarkFlagRequired("filled")
	return cmd
}

func runValidate(cmd *cobra.Command, opts *rootOptions, v *validateOptions) error {
	cfg, _, err := opts.loadConfig()
	if err != nil {
		return err
	}
	applyValidateFlags(cmd, &cfg, v)
	if v.maxRows < 0 {
		return usageErrorf("--max-rows-per-sheet must be >= 0")
	}
	if v.workers < 0 {
		return usageErrorf("--workers must be >= 0")
	}

	logger, err := opts.newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	verbose := logger.Core().Enabled(zapcore.InfoLevel)
	decision, err := resolveUIMode(v.uiMode, verbose, opts.stdout)
	if err != nil {
		return &usageError{err: err}
	}
	if decision.warning != "" {
		fmt.Fprintln(opts.stderr, decision.warning)
	}
	noColor := v.noColor || !isTerminal(opts.stdout)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	engine, err := rules.NewEngine(cfg.RuleConfig())
	if err != nil {
		return fmt.Errorf("build rule engine: %w", err)
	}

	refiner := llm.Disabled()
	if cfg.LLM.Enabled {
		factory, err := openRefinerFactory(ctx, cfg.LLM, logger, opts.stderr)
		if err != nil {
			return err
		}
		defer func() { _ = factory.Close() }()
		if refiner, err = factory.build(ctx, v.model); err != nil {
			return err
		}
	}

	params := pipeline.Params{
		Source:    v.filled,
		OutputDir: cfg.Output.Dir,
		Extract:   cfg.ExtractOptions(),
		Redact:    cfg.Redact.Enabled,
		Workers:   cfg.Evaluate.Workers,
		Engine:    engine,
		Refiner:   refiner,
		Logger:    logger,
	}
	if cfg.Store.Path != "" && !v.noStore {
		db, err := store.Open(ctx, cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open run history: %w", err)
		}
		defer db.Close()
		params.Recorder = db
	}

	var ui liveUI
	if decision.useLive {
		ui = startLiveUI(opts, noColor)
		params.Observer = ui
	}
	result, err := runPipeline(ctx, params)
	if ui != nil {
		ui.Close()
		ui.Wait()
	}
	if err != nil {
		return describeValidateError(v.filled, err)
	}

	if result.RefineErr != nil {
		fmt.Fprintf(opts.stderr, "Warning: some rows could not be refined; see details.llm_error in the report.\n")
		logger.Warn("llm refinement incomplete", zap.Error(result.RefineErr))
	}
	if err := report.RenderSummary(opts.stdout, result.Report, noColor); err != nil {
		return err
	}
	if params.Recorder != nil {
		fmt.Fprintf(opts.stdout, "\nRecorded run %s in %s\n", result.RunID, cfg.Store.Path)
	}
	return nil
}

// applyValidateFlags lets explicitly set flags override the config.
func applyValidateFlags(cmd *cobra.Command, cfg *config.Config, v *validateOptions) {
	flags := cmd.Flags()
	if strings.TrimSpace(v.outDir) != "" {
		cfg.Output.Dir = v.outDir
	}
	if v.useLLM {
		cfg.LLM.Enabled = true
	}
	if flags.Changed("max-rows-per-sheet") {
		cfg.Extract.MaxRowsPerSheet = v.maxRows
	}
	if strings.TrimSpace(v.reference) != "" {
		cfg.Extract.Reference = v.reference
	}
	if strings.TrimSpace(v.dbPath) != "" {
		cfg.Store.Path = v.dbPath
	}
	if flags.Changed("redact") {
		cfg.Redact.Enabled = v.redact
	}
	if v.workers > 0 {
		cfg.Evaluate.Workers = v.workers
	}
}

// describeValidateError maps pipeline failures to user-facing messages.
func describeValidateError(filled string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("filled file not found: %s", filled)
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return fmt.Errorf("%s: only XLSX or PDF files are supported", filled)
	case errors.Is(err, extract.ErrNoRows):
		return err
	case errors.Is(err, context.Canceled):
		return errors.New("validation interrupted")
	default:
		return fmt.Errorf("validation failed: %w", err)
	}
}
