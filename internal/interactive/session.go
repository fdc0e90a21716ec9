// Package interactive gathers a schema from a user at a terminal and runs the
// pipeline with it.
//
// Every step that a flag already answered is skipped, and with AcceptAll set
// no prompt is shown at all, so the same Session drives scripted runs.
package interactive

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/linecheck/internal/core"
	"github.com/JonMunkholm/linecheck/internal/history"
	"github.com/JonMunkholm/linecheck/internal/logging"
)

// ErrAborted is returned when input ends before the session has what it needs.
var ErrAborted = errors.New("input closed before the file was processed")

// Options preset the answers a Session would otherwise prompt for.
type Options struct {
	Path      string
	Overrides core.Overrides

	// AcceptAll takes every suggestion without prompting.
	AcceptAll bool

	Sampling      core.Sampling
	Process       core.ProcessOptions
	ReportDir     string
	PreviewErrors int
}

// Session is one prompt-driven run over a single file.
type Session struct {
	in      *bufio.Reader
	out     io.Writer
	opts    Options
	history history.Store
}

// New returns a Session reading answers from in and writing prompts to out.
// A nil store disables run history.
func New(in io.Reader, out io.Writer, opts Options, store history.Store) *Session {
	if store == nil {
		store = history.Discard{}
	}
	return &Session{in: bufio.NewReader(in), out: out, opts: opts, history: store}
}

// Run executes the session. The returned error is fatal: the file could not
// be read, the report could not be written, or input ended early.
func (s *Session) Run(ctx context.Context) (core.Outcome, error) {
	path, err := s.askPath()
	if err != nil {
		return core.Outcome{}, err
	}

	schema, suggested, err := s.resolveSchema(path)
	if err != nil {
		return core.Outcome{}, err
	}
	process := s.opts.Process
	process.SuggestedNames = suggested

	runID := uuid.New()
	ctx = logging.WithRunID(ctx, runID.String())

	s.printf("\nProcessing %s...\n", path)
	out, err := core.Run(path, schema, core.RunOptions{
		ReportDir: s.opts.ReportDir,
		Process:   process,
	})
	if err != nil {
		return out, err
	}

	s.summarize(out)

	if err := s.history.SaveRun(ctx, history.NewRun(runID, schema, out)); err != nil {
		logging.FromContext(ctx).Error("history save failed", "error", err)
		s.printf("\nWarning: %s\n", core.FormatUserError(err))
	}
	return out, nil
}

// askPath loops until the user names an existing regular file.
func (s *Session) askPath() (string, error) {
	if s.opts.Path != "" || s.opts.AcceptAll {
		return s.opts.Path, core.CheckFile(s.opts.Path)
	}

	for {
		path, err := s.ask("\nPath of the file to check: ")
		if err != nil {
			return "", err
		}
		if err := core.CheckFile(path); err != nil {
			s.printf("Error: %s\n", core.FormatUserError(err))
			continue
		}
		return path, nil
	}
}

// resolveSchema returns the schema to validate against and the names that
// were suggested for it.
func (s *Session) resolveSchema(path string) (core.Schema, []string, error) {
	s.printf("\nDetecting delimiter...\n")
	delim, count, detected := core.DetectStructure(path, s.opts.Sampling.DelimiterLines)
	if detected {
		s.printf("Detected delimiter: %s\n", quoteDelimiter(delim))
		s.printf("Expected field count: %d\n", count)
	} else {
		s.printf("Could not determine the file structure.\n")
		s.printf("Using defaults: delimiter %s, %d fields\n", quoteDelimiter(delim), count)
	}

	delimOverride := s.opts.Overrides.Delimiter
	if delimOverride == "" && !s.opts.AcceptAll {
		change, err := s.ask("\nChange the delimiter? (y/n): ")
		if err != nil {
			return core.Schema{}, nil, err
		}
		if yes(change) {
			if delimOverride, err = s.askRaw(fmt.Sprintf("New delimiter (current %s): ", quoteDelimiter(delim))); err != nil {
				return core.Schema{}, nil, err
			}
		}
	}
	if next := core.ApplyDelimiter(delim, delimOverride); next != delim {
		delim = next
		s.printf("Delimiter set to %s\n", quoteDelimiter(delim))
	}

	s.printf("\nThe file has %d fields.\n", count)

	s.printf("\nSuggesting column names...\n")
	suggestedNames := core.SuggestNames(count, delim, path)
	s.printf("Suggested names: %s\n", strings.Join(suggestedNames, ", "))

	namesInput, err := s.override(s.opts.Overrides.Names, "\nColumn names, comma-separated\n(Enter to accept the suggestion): ")
	if err != nil {
		return core.Schema{}, nil, err
	}
	names, notice := core.ApplyNames(suggestedNames, namesInput, count)
	s.notice(notice)
	s.printf("Column names: %s\n", strings.Join(names, ", "))

	s.printf("\nSuggesting column types...\n")
	suggestedTypes := core.ConformTypes(core.InferTypes(path, delim, s.opts.Sampling.TypeLines), count)
	s.printf("Suggested types: %s\n", joinTypes(suggestedTypes))

	typesInput, err := s.override(s.opts.Overrides.Types, "\nColumn types, comma-separated (int, float, string)\n(Enter to accept the suggestion): ")
	if err != nil {
		return core.Schema{}, nil, err
	}
	types, notice := core.ApplyTypes(suggestedTypes, typesInput, count)
	s.notice(notice)
	s.printf("Column types: %s\n", joinTypes(types))

	schema, err := core.NewSchema(delim, names, types)
	return schema, suggestedNames, err
}

// override returns preset when given, otherwise prompts unless AcceptAll.
func (s *Session) override(preset, prompt string) (string, error) {
	if preset != "" || s.opts.AcceptAll {
		return preset, nil
	}
	return s.ask(prompt)
}

func (s *Session) summarize(out core.Outcome) {
	r := out.Report
	if out.Result.HeaderSkipped {
		s.printf("First line matches the column names and was skipped\n")
	}
	s.printf("\nProcessing complete.\n")
	s.printf("\nTotal records: %d\n", r.TotalLines)
	s.printf("Correct: %d\n", r.CorrectCount)
	s.printf("Incorrect: %d\n", r.IncorrectCount)

	if n := min(s.opts.PreviewErrors, len(r.Incorrect)); n > 0 {
		s.printf("\nSample errors:\n")
		for _, rec := range r.Incorrect[:n] {
			s.printf("  Line %d: %s\n", rec.LineNumber, rec.Line)
			s.printf("    -> %s\n", rec.Reason)
		}
	}

	s.printf("\nReport saved to %s\n", out.ReportPath)
	s.printf("\nReport contents:\n\n")
	s.printf("%s", core.FormatReport(r))
}

func (s *Session) notice(n *core.Notice) {
	if n != nil {
		s.printf("%s\n", n)
	}
}

// ask prompts and returns the trimmed answer.
func (s *Session) ask(prompt string) (string, error) {
	line, err := s.askRaw(prompt)
	return strings.TrimSpace(line), err
}

// askRaw prompts and returns the answer without its line ending, keeping
// other whitespace so a tab can be entered as a delimiter.
func (s *Session) askRaw(prompt string) (string, error) {
	s.printf("%s", prompt)
	line, err := s.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	switch {
	case errors.Is(err, io.EOF):
		return "", ErrAborted
	case err != nil:
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func yes(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

func quoteDelimiter(d string) string {
	if d == "\t" {
		return "TAB"
	}
	return "'" + d + "'"
}

func joinTypes(types []core.ColumnType) string {
	return strings.Join(core.TypeNames(types), ", ")
}
