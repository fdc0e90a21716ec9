// Package postgres stores run history in PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/linecheck/internal/core"
	"github.com/JonMunkholm/linecheck/internal/history"
)

func init() {
	history.Register("postgres", func(ctx context.Context, dsn string) (history.Store, error) {
		return Open(ctx, dsn)
	})
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS linecheck_runs (
	id              UUID PRIMARY KEY,
	source          TEXT NOT NULL,
	report_path     TEXT NOT NULL,
	delimiter       TEXT NOT NULL,
	columns         JSONB NOT NULL,
	header_skipped  BOOLEAN NOT NULL,
	total_lines     INTEGER NOT NULL,
	correct_count   INTEGER NOT NULL,
	incorrect_count INTEGER NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS linecheck_runs_created_at_idx ON linecheck_runs (created_at DESC);
CREATE TABLE IF NOT EXISTS linecheck_run_errors (
	run_id      UUID NOT NULL REFERENCES linecheck_runs (id) ON DELETE CASCADE,
	line_number INTEGER NOT NULL,
	line        TEXT NOT NULL,
	reason      TEXT NOT NULL,
	PRIMARY KEY (run_id, line_number)
);`

// errorColumns is the COPY column list for linecheck_run_errors.
var errorColumns = []string{"run_id", "line_number", "line", "reason"}

// Store is a PostgreSQL-backed history.Store.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn, verifies the connection, and ensures the tables.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// SaveRun inserts the run row and bulk-copies its incorrect records in one
// transaction.
func (s *Store) SaveRun(ctx context.Context, run history.Run) error {
	cols, err := json.Marshal(run.Columns)
	if err != nil {
		return history.Wrap("save run", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return history.Wrap("save run", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO linecheck_runs (id, source, report_path, delimiter, columns, header_skipped,
			total_lines, correct_count, incorrect_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		run.ID, run.Source, run.ReportPath, run.Delimiter, cols, run.HeaderSkipped,
		run.TotalLines, run.CorrectCount, run.IncorrectCount, run.CreatedAt,
	)
	if err != nil {
		return history.Wrap("save run", err)
	}

	if len(run.Incorrect) > 0 {
		rows := make([][]any, len(run.Incorrect))
		for i, rec := range run.Incorrect {
			rows[i] = []any{run.ID, rec.LineNumber, rec.Line, rec.Reason}
		}
		_, err := tx.CopyFrom(ctx, pgx.Identifier{"linecheck_run_errors"}, errorColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return history.Wrap("save run errors", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return history.Wrap("save run", err)
	}
	return nil
}

const selectRun = `
	SELECT id, source, report_path, delimiter, columns, header_skipped,
		total_lines, correct_count, incorrect_count, created_at
	FROM linecheck_runs`

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]history.Run, error) {
	rows, err := s.pool.Query(ctx, selectRun+` ORDER BY created_at DESC, id LIMIT $1`, history.Limit(limit))
	if err != nil {
		return nil, history.Wrap("list runs", err)
	}
	defer rows.Close()

	runs := []history.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, history.Wrap("list runs", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, history.Wrap("list runs", err)
	}
	return runs, nil
}

// GetRun returns one run with its incorrect records.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (history.Run, error) {
	run, err := scanRun(s.pool.QueryRow(ctx, selectRun+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return history.Run{}, history.Wrap("get run", history.ErrRunNotFound)
	}
	if err != nil {
		return history.Run{}, history.Wrap("get run", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT line_number, line, reason
		FROM linecheck_run_errors
		WHERE run_id = $1
		ORDER BY line_number`, id)
	if err != nil {
		return history.Run{}, history.Wrap("get run errors", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec core.IncorrectRecord
		if err := rows.Scan(&rec.LineNumber, &rec.Line, &rec.Reason); err != nil {
			return history.Run{}, history.Wrap("get run errors", err)
		}
		run.Incorrect = append(run.Incorrect, rec)
	}
	if err := rows.Err(); err != nil {
		return history.Run{}, history.Wrap("get run errors", err)
	}
	return run, nil
}

func scanRun(row pgx.Row) (history.Run, error) {
	var (
		run  history.Run
		cols []byte
	)
	err := row.Scan(&run.ID, &run.Source, &run.ReportPath, &run.Delimiter, &cols, &run.HeaderSkipped,
		&run.TotalLines, &run.CorrectCount, &run.IncorrectCount, &run.CreatedAt)
	if err != nil {
		return run, err
	}
	if err := json.Unmarshal(cols, &run.Columns); err != nil {
		return run, fmt.Errorf("run %s columns: %w", run.ID, err)
	}
	run.CreatedAt = run.CreatedAt.UTC()
	return run, nil
}
