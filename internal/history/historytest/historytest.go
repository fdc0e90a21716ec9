// Package historytest checks that a history.Store honors the Store contract.
// Each backend's tests call Run with a fresh, empty store.
package historytest

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/linecheck/internal/core"
	"github.com/JonMunkholm/linecheck/internal/history"
)

// Run exercises s. The store must be empty.
func Run(t *testing.T, s history.Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older := sampleRun(base, "older.csv", nil)
	newer := sampleRun(base.Add(time.Hour), "newer.csv", []core.IncorrectRecord{
		{LineNumber: 4, Line: "x,Carol,40", Reason: "id: not an integer"},
		{LineNumber: 2, Line: "2,Bob,-5", Reason: "age: non-positive number"},
	})

	t.Run("save", func(t *testing.T) {
		for _, r := range []history.Run{older, newer} {
			if err := s.SaveRun(ctx, r); err != nil {
				t.Fatalf("SaveRun(%s) error = %v", r.Source, err)
			}
		}
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		if err := s.SaveRun(ctx, older); err == nil {
			t.Error("SaveRun() with a duplicate ID succeeded")
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		runs, err := s.ListRuns(ctx, 10)
		if err != nil {
			t.Fatalf("ListRuns() error = %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("ListRuns() returned %d runs, want 2", len(runs))
		}
		if runs[0].ID != newer.ID || runs[1].ID != older.ID {
			t.Errorf("order = [%s %s], want newer first", runs[0].Source, runs[1].Source)
		}
		if runs[0].Incorrect != nil {
			t.Errorf("ListRuns() loaded incorrect records: %+v", runs[0].Incorrect)
		}
	})

	t.Run("list limit", func(t *testing.T) {
		runs, err := s.ListRuns(ctx, 1)
		if err != nil {
			t.Fatalf("ListRuns() error = %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("ListRuns(1) returned %d runs", len(runs))
		}
	})

	t.Run("get round trip", func(t *testing.T) {
		got, err := s.GetRun(ctx, newer.ID)
		if err != nil {
			t.Fatalf("GetRun() error = %v", err)
		}
		if !got.CreatedAt.Equal(newer.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, newer.CreatedAt)
		}
		got.CreatedAt = newer.CreatedAt

		want := newer
		want.Incorrect = []core.IncorrectRecord{newer.Incorrect[1], newer.Incorrect[0]}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("GetRun() =\n%+v\nwant\n%+v", got, want)
		}
	})

	t.Run("get unknown", func(t *testing.T) {
		_, err := s.GetRun(ctx, uuid.New())
		if !errors.Is(err, history.ErrRunNotFound) {
			t.Errorf("GetRun(unknown) error = %v, want ErrRunNotFound", err)
		}
	})
}

func sampleRun(at time.Time, source string, incorrect []core.IncorrectRecord) history.Run {
	return history.Run{
		ID:         uuid.New(),
		Source:     source,
		ReportPath: "/reports/" + source + "_report.txt",
		Delimiter:  ",",
		Columns: []core.Column{
			{Name: "id", Type: core.ColumnInteger},
			{Name: "name", Type: core.ColumnText},
			{Name: "age", Type: core.ColumnInteger},
		},
		HeaderSkipped:  true,
		TotalLines:     3,
		CorrectCount:   3 - len(incorrect),
		IncorrectCount: len(incorrect),
		Incorrect:      incorrect,
		CreatedAt:      at,
	}
}
