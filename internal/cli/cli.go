// Package cli implements the ddqcheck command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ddqcheck/internal/config"
	"ddqcheck/internal/logging"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// getwd and getenv are test seams for the process environment.
var (
	getwd  = os.Getwd
	getenv = os.Getenv
)

// usageError marks errors caused by invalid invocation.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// usageArgs converts positional argument failures into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	stdout     io.Writer
	stderr     io.Writer
}

// Run executes the CLI with args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	opts := &rootOptions{stdout: stdout, stderr: stderr}
	root := newRootCommand(opts)
	if len(args) == 0 {
		root.SetOut(stdout)
		_ = root.Usage()
		return ExitUsage
	}
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return ExitOK
	}

	var usage *usageError
	if errors.As(err, &usage) || isCobraUsageError(err) {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		cmd, _, findErr := root.Find(args)
		if findErr != nil || cmd == nil {
			cmd = root
		}
		cmd.SetOut(stderr)
		_ = cmd.Usage()
		return ExitUsage
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitError
}

// isCobraUsageError recognizes invocation errors cobra returns unwrapped.
func isCobraUsageError(err error) bool {
	message := err.Error()
	return strings.HasPrefix(message, "unknown command") || strings.HasPrefix(message, "required flag(s)")
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:   "ddqcheck",
		Short: "Validate filled due-diligence questionnaires",
		Long: `ddqcheck checks the answers of a filled due-diligence questionnaire (XLSX or PDF)
against a fixed rule cascade, optionally refines flagged rows with a language model,
and writes report.csv and summary.json.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(opts.stdout)
	root.SetErr(opts.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: search for .ddqcheck/config.yml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: console or json (default from config)")

	root.AddCommand(
		newInitCommand(opts),
		newCheckCommand(opts),
		newValidateCommand(opts),
		newRulesCommand(opts),
		newHistoryCommand(opts),
		newServeCommand(opts),
	)
	return root
}

// loadConfig resolves the config from --config or by searching upward from the working directory.
func (o *rootOptions) loadConfig() (config.Config, string, error) {
	wd, err := getwd()
	if err != nil {
		return config.Config{}, "", fmt.Errorf("resolve working directory: %w", err)
	}
	cfg, path, err := config.Resolve(strings.TrimSpace(o.configPath), wd)
	if err != nil {
		return config.Config{}, path, fmt.Errorf("load config: %w", err)
	}
	return cfg, path, nil
}

// newLogger builds the logger, letting persistent flags override the config.
func (o *rootOptions) newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level := cfg.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	format := cfg.Format
	if o.logFormat != "" {
		format = o.logFormat
	}
	logger, err := logging.New(logging.Options{Level: level, Format: format, Output: o.stderr})
	if err != nil {
		return nil, usageErrorf("%v", err)
	}
	return logger, nil
}
