// Package sqlite stores run history in a local SQLite file.
//
// Timestamps are stored as RFC3339Nano text and columns as JSON text, which
// keeps the file readable with the sqlite3 shell.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/linecheck/internal/core"
	"github.com/JonMunkholm/linecheck/internal/history"
)

func init() {
	history.Register("sqlite", func(ctx context.Context, dsn string) (history.Store, error) {
		return Open(ctx, dsn)
	})
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id              TEXT PRIMARY KEY,
	source          TEXT NOT NULL,
	report_path     TEXT NOT NULL,
	delimiter       TEXT NOT NULL,
	columns         TEXT NOT NULL,
	header_skipped  INTEGER NOT NULL,
	total_lines     INTEGER NOT NULL,
	correct_count   INTEGER NOT NULL,
	incorrect_count INTEGER NOT NULL,
	created_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at_idx ON runs (created_at);
CREATE TABLE IF NOT EXISTS run_errors (
	run_id      TEXT NOT NULL REFERENCES runs (id) ON DELETE CASCADE,
	line_number INTEGER NOT NULL,
	line        TEXT NOT NULL,
	reason      TEXT NOT NULL,
	PRIMARY KEY (run_id, line_number)
);`

// Store is a SQLite-backed history.Store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dsn and ensures the tables.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One writer at a time; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) SaveRun(ctx context.Context, run history.Run) error {
	cols, err := json.Marshal(run.Columns)
	if err != nil {
		return history.Wrap("save run", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return history.Wrap("save run", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, source, report_path, delimiter, columns, header_skipped,
			total_lines, correct_count, incorrect_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.Source, run.ReportPath, run.Delimiter, string(cols), run.HeaderSkipped,
		run.TotalLines, run.CorrectCount, run.IncorrectCount, run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return history.Wrap("save run", err)
	}

	if len(run.Incorrect) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_errors (run_id, line_number, line, reason) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return history.Wrap("save run errors", err)
		}
		defer stmt.Close()

		for _, rec := range run.Incorrect {
			if _, err := stmt.ExecContext(ctx, run.ID.String(), rec.LineNumber, rec.Line, rec.Reason); err != nil {
				return history.Wrap("save run errors", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return history.Wrap("save run", err)
	}
	return nil
}

const selectRun = `
	SELECT id, source, report_path, delimiter, columns, header_skipped,
		total_lines, correct_count, incorrect_count, created_at
	FROM runs`

func (s *Store) ListRuns(ctx context.Context, limit int) ([]history.Run, error) {
	rows, err := s.db.QueryContext(ctx, selectRun+` ORDER BY created_at DESC, id LIMIT ?`, history.Limit(limit))
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

func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (history.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return history.Run{}, history.Wrap("get run", history.ErrRunNotFound)
	}
	if err != nil {
		return history.Run{}, history.Wrap("get run", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT line_number, line, reason FROM run_errors WHERE run_id = ? ORDER BY line_number`, id.String())
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

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (history.Run, error) {
	var (
		run       history.Run
		id        string
		cols      string
		createdAt string
	)
	err := sc.Scan(&id, &run.Source, &run.ReportPath, &run.Delimiter, &cols, &run.HeaderSkipped,
		&run.TotalLines, &run.CorrectCount, &run.IncorrectCount, &createdAt)
	if err != nil {
		return run, err
	}

	if run.ID, err = uuid.Parse(id); err != nil {
		return run, fmt.Errorf("run id %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(cols), &run.Columns); err != nil {
		return run, fmt.Errorf("run %s columns: %w", id, err)
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return run, fmt.Errorf("run %s created_at: %w", id, err)
	}
	return run, nil
}
