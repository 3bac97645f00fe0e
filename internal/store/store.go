// Package store persists validation runs and their findings in DuckDB.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"ddqcheck/internal/finding"
	"ddqcheck/internal/question"
)

// ErrRunNotFound reports a run ID with no stored run.
var ErrRunNotFound = errors.New("run not found")

// Run is the stored summary of one validation run.
type Run struct {
	ID           string
	Source       string
	StartedAt    time.Time
	FinishedAt   time.Time
	TotalRows    int
	TotalFlagged int
	Model        string
	ReportCSV    string
	SummaryJSON  string
}

// Store wraps a DuckDB database holding run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("store: path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun writes a run and its ordered findings in one transaction.
func (s *Store) SaveRun(ctx context.Context, run Run, findings []finding.Finding) error {
	if run.ID == "" {
		return errors.New("store: run id is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, source_file, started_at, finished_at, total_rows, total_flagged, llm_model, report_csv, summary_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Source,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
		run.TotalRows,
		run.TotalFlagged,
		nullable(run.Model),
		nullable(run.ReportCSV),
		nullable(run.SummaryJSON),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO findings (finding_id, run_id, position, sheet, row_idx, question_id, question_text, answer_text, expected_text, status, reason, details)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare finding insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range findings {
		details, err := f.DetailsJSON()
		if err != nil {
			return fmt.Errorf("encode details: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(),
			run.ID,
			i,
			f.Sheet,
			f.RowIdx,
			nullable(f.ID()),
			f.QuestionText,
			f.AnswerText,
			f.ExpectedText,
			f.Status.String(),
			f.Reason,
			details,
		); err != nil {
			return fmt.Errorf("insert finding %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit of zero returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT run_id, source_file, started_at, finished_at, total_rows, total_flagged,
		coalesce(llm_model, ''), coalesce(report_csv, ''), coalesce(summary_json, '')
		FROM runs ORDER BY started_at DESC, run_id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Source, &run.StartedAt, &run.FinishedAt, &run.TotalRows,
			&run.TotalFlagged, &run.Model, &run.ReportCSV, &run.SummaryJSON); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// StatusCounts returns the status histogram for a stored run.
func (s *Store) StatusCounts(ctx context.Context, runID string) (map[finding.Status]int, error) {
	if err := s.requireRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, count(*) FROM findings WHERE run_id = ? GROUP BY status`, runID)
	if err != nil {
		return nil, fmt.Errorf("count statuses: %w", err)
	}
	defer rows.Close()
	counts := map[finding.Status]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[finding.Status(status)] = count
	}
	return counts, rows.Err()
}

// Findings returns a run's findings in their original order. With flaggedOnly
// set, OK and SKIPPED rows are omitted.
func (s *Store) Findings(ctx context.Context, runID string, flaggedOnly bool) ([]finding.Finding, error) {
	if err := s.requireRun(ctx, runID); err != nil {
		return nil, err
	}
	query := `SELECT sheet, row_idx, question_id, question_text, answer_text, expected_text, status, reason, details
		FROM findings WHERE run_id = ?`
	if flaggedOnly {
		query += ` AND status NOT IN ('OK', 'SKIPPED')`
	}
	query += ` ORDER BY position`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}
	defer rows.Close()

	var out []finding.Finding
	for rows.Next() {
		var (
			row     question.Row
			id      sql.NullString
			status  string
			reason  string
			details string
		)
		if err := rows.Scan(&row.Sheet, &row.RowIdx, &id, &row.QuestionText, &row.AnswerText,
			&row.ExpectedText, &status, &reason, &details); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		if id.Valid {
			row.QuestionID = question.OptionalID(id.String)
		}
		var decoded finding.Details
		if err := json.Unmarshal([]byte(details), &decoded); err != nil {
			return nil, fmt.Errorf("decode details: %w", err)
		}
		out = append(out, finding.New(row, finding.Status(status), reason, decoded))
	}
	return out, rows.Err()
}

func (s *Store) requireRun(ctx context.Context, runID string) error {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) > 0 FROM runs WHERE run_id = ?`, runID).Scan(&exists); err != nil {
		return fmt.Errorf("lookup run: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}
