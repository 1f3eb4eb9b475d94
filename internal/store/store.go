// Package store persists conformance run results in SQLite, so CI
// jobs and local runs can be compared after the fact.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const currentSchemaVersion = 1

// Run is one suite execution.
type Run struct {
	ID        string
	StartedAt time.Time
	GOOS      string
	Matrix    bool
	Total     int
	Passed    int
	Failed    int
	Skipped   int
}

// CheckResult is the outcome of one check for one fixture case.
type CheckResult struct {
	Check  string
	Case   string
	Status string
	Detail string
}

// Result statuses.
const (
	StatusPass = "pass"
	StatusFail = "fail"
	StatusSkip = "skip"
)

// Store wraps the SQLite database. WAL mode keeps reads available
// while a run is being written.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path, applying pragmas and
// the schema. Idempotent across calls.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	// SQLite supports one writer at a time; a single connection
	// avoids SQLITE_BUSY under concurrent use.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// WriteRun inserts the run header and its results in one transaction.
// Re-writing an existing run ID is silently ignored.
func (s *Store) WriteRun(ctx context.Context, run Run, results []CheckResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, goos, matrix, total, passed, failed, skipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.GOOS,
		boolInt(run.Matrix),
		run.Total,
		run.Passed,
		run.Failed,
		run.Skipped,
	)
	if err != nil {
		return fmt.Errorf("store: write run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil
	}

	for _, r := range results {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO check_results (run_id, check_name, case_name, status, detail)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(run_id, check_name, case_name) DO NOTHING
		`, run.ID, r.Check, r.Case, r.Status, r.Detail); err != nil {
			return fmt.Errorf("store: write result %s/%s: %w", r.Check, r.Case, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// ListRuns returns run headers, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, goos, matrix, total, passed, failed, skipped
		FROM runs
		ORDER BY started_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		var matrix int
		if err := rows.Scan(&r.ID, &started, &r.GOOS, &matrix, &r.Total, &r.Passed, &r.Failed, &r.Skipped); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		r.StartedAt, err = time.Parse(time.RFC3339Nano, started)
		if err != nil {
			return nil, fmt.Errorf("store: parse started_at %q: %w", started, err)
		}
		r.Matrix = matrix != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunResults returns the results of one run ordered by check then
// case name.
func (s *Store) RunResults(ctx context.Context, runID string) ([]CheckResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT check_name, case_name, status, detail
		FROM check_results
		WHERE run_id = ?
		ORDER BY check_name, case_name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: run results: %w", err)
	}
	defer rows.Close()

	var results []CheckResult
	for rows.Next() {
		var r CheckResult
		if err := rows.Scan(&r.Check, &r.Case, &r.Status, &r.Detail); err != nil {
			return nil, fmt.Errorf("store: scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
