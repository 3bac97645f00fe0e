package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"ddqcheck/internal/finding"
	"ddqcheck/internal/store"
)

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var (
		dbPath string
		limit  int
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs or show the findings of one run",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(dbPath) != "" {
				cfg.Store.Path = dbPath
			}
			if cfg.Store.Path == "" {
				return usageErrorf("no run history configured; set store.path or pass --db")
			}
			if limit < 0 {
				return usageErrorf("--limit must be >= 0")
			}

			db, err := store.Open(cmd.Context(), cfg.Store.Path)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer db.Close()

			if len(args) == 0 {
				runs, err := db.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return printRuns(opts, runs)
			}

			runID := args[0]
			counts, err := db.StatusCounts(cmd.Context(), runID)
			if errors.Is(err, store.ErrRunNotFound) {
				return fmt.Errorf("run %s not found in %s", runID, cfg.Store.Path)
			}
			if err != nil {
				return err
			}
			findings, err := db.Findings(cmd.Context(), runID, !all)
			if err != nil {
				return err
			}
			return printRun(opts, runID, counts, findings)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB run history file (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of runs to list (0 = all)")
	cmd.Flags().BoolVar(&all, "all", false, "Show every row of a run, not only flagged ones")
	return cmd
}

func printRuns(opts *rootOptions, runs []store.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(opts.stdout, "No runs recorded.")
		return nil
	}
	w := tabwriter.NewWriter(opts.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tFILE\tROWS\tFLAGGED\tMODEL")
	for _, run := range runs {
		model := run.Model
		if model == "" {
			model = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", run.ID, run.StartedAt.UTC().Format(time.RFC3339),
			filepath.Base(run.Source), run.TotalRows, run.TotalFlagged, model)
	}
	return w.Flush()
}

func printRun(opts *rootOptions, runID string, counts map[finding.Status]int, findings []finding.Finding) error {
	fmt.Fprintf(opts.stdout, "Run %s\n", runID)
	for _, status := range finding.Statuses {
		if counts[status] > 0 {
			fmt.Fprintf(opts.stdout, "  - %s: %d\n", status, counts[status])
		}
	}
	if len(findings) == 0 {
		return nil
	}
	fmt.Fprintln(opts.stdout)
	w := tabwriter.NewWriter(opts.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SHEET\tROW\tID\tSTATUS\tREASON")
	for _, f := range findings {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", f.Sheet, f.RowIdx, f.ID(), f.Status, f.Reason)
	}
	return w.Flush()
}
