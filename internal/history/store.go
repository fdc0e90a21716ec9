// Package history records completed validation runs.
//
// Backends register themselves by driver name from an init function, the way
// database/sql drivers do. Import the backend for its side effect:
//
//	import _ "github.com/JonMunkholm/linecheck/internal/history/sqlite"
//
// The "none" driver is always available and discards everything, so callers
// never need to branch on whether history is enabled.
package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/linecheck/internal/core"
)

// ErrRunNotFound is returned by GetRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

// DefaultListLimit caps ListRuns when the caller passes a non-positive limit.
const DefaultListLimit = 50

// Run is one completed validation run.
type Run struct {
	ID             uuid.UUID              `json:"id"`
	Source         string                 `json:"source"`
	ReportPath     string                 `json:"reportPath"`
	Delimiter      string                 `json:"delimiter"`
	Columns        []core.Column          `json:"columns"`
	HeaderSkipped  bool                   `json:"headerSkipped"`
	TotalLines     int                    `json:"totalLines"`
	CorrectCount   int                    `json:"correctCount"`
	IncorrectCount int                    `json:"incorrectCount"`
	Incorrect      []core.IncorrectRecord `json:"incorrect,omitempty"`
	CreatedAt      time.Time              `json:"createdAt"`
}

// NewRun builds a Run from a finished pipeline run. id is usually the run ID
// already attached to the request's logs.
func NewRun(id uuid.UUID, schema core.Schema, out core.Outcome) Run {
	return Run{
		ID:             id,
		Source:         out.Report.Source,
		ReportPath:     out.ReportPath,
		Delimiter:      schema.Delimiter(),
		Columns:        schema.Columns(),
		HeaderSkipped:  out.Result.HeaderSkipped,
		TotalLines:     out.Report.TotalLines,
		CorrectCount:   out.Report.CorrectCount,
		IncorrectCount: out.Report.IncorrectCount,
		Incorrect:      out.Report.Incorrect,
		CreatedAt:      time.Now().UTC(),
	}
}

// Store persists runs.
type Store interface {
	// SaveRun stores run and its incorrect records atomically.
	SaveRun(ctx context.Context, run Run) error

	// ListRuns returns the most recent runs first, without incorrect records.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// GetRun returns one run with its incorrect records in line order.
	// Unknown IDs yield an error wrapping ErrRunNotFound.
	GetRun(ctx context.Context, id uuid.UUID) (Run, error)

	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver string
	DSN    string
}

// Factory opens a Store for a DSN.
type Factory func(ctx context.Context, dsn string) (Store, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{
		"none": func(context.Context, string) (Store, error) { return Discard{}, nil },
	}
)

// Register makes a backend available under driver.
// It panics if driver is empty, f is nil, or driver is already registered.
func Register(driver string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if driver == "" {
		panic("history: Register called with empty driver")
	}
	if f == nil {
		panic("history: Register called with nil factory")
	}
	if _, exists := factories[driver]; exists {
		panic(fmt.Sprintf("history: driver already registered: %q", driver))
	}
	factories[driver] = f
}

// Drivers returns the registered driver names, sorted.
func Drivers() []string {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Open returns a Store for cfg.Driver, matched case-insensitively.
// An empty driver means "none".
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = "none"
	}

	mu.RLock()
	f := factories[driver]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("history store: unknown driver %q (forgotten import?)", driver)
	}

	s, err := f(ctx, cfg.DSN)
	if err != nil {
		return nil, Wrap("open "+driver, err)
	}
	return s, nil
}

// Wrap prefixes a backend error so it maps to the history error codes.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("history store: %s: %w", op, err)
}

// Limit normalizes a caller-supplied list limit.
func Limit(n int) int {
	if n <= 0 || n > DefaultListLimit*10 {
		return DefaultListLimit
	}
	return n
}

// Discard is the Store used when history is disabled.
type Discard struct{}

func (Discard) SaveRun(context.Context, Run) error { return nil }

func (Discard) ListRuns(context.Context, int) ([]Run, error) { return []Run{}, nil }

func (Discard) GetRun(context.Context, uuid.UUID) (Run, error) {
	return Run{}, Wrap("get run", ErrRunNotFound)
}

func (Discard) Close() error { return nil }
