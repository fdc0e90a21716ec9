package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/linecheck/internal/history"
	"github.com/JonMunkholm/linecheck/internal/history/historytest"
)

func TestStore(t *testing.T) {
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	historytest.Run(t, s)
}

func TestRegisteredDriver(t *testing.T) {
	for _, driver := range []string{"sqlite", "SQLite"} {
		t.Run(driver, func(t *testing.T) {
			dsn := filepath.Join(t.TempDir(), "history.db")

			s, err := history.Open(context.Background(), history.Config{Driver: driver, DSN: dsn})
			if err != nil {
				t.Fatalf("history.Open() error = %v", err)
			}
			defer s.Close()

			if _, ok := s.(*Store); !ok {
				t.Errorf("history.Open() = %T, want *Store", s)
			}
		})
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	historytest.Run(t, s)
	s.Close()

	s, err = Open(ctx, dsn)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("ListRuns() after reopen = %d runs, want 2", len(runs))
	}
}
