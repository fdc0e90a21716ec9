package core

// pipeline.go ties detection, overrides, processing, and report writing
// together for callers that do not prompt between steps (HTTP handlers,
// non-interactive CLI runs). The interactive session calls the individual
// steps itself so it can show each suggestion before asking for overrides.

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
)

// DetectStructure runs delimiter detection and substitutes the defaults when
// the structure cannot be determined. detected reports whether detection
// succeeded.
func DetectStructure(path string, sampleSize int) (delimiter string, fieldCount int, detected bool) {
	delimiter, fieldCount = DetectDelimiter(path, sampleSize)
	if fieldCount == 0 {
		return DefaultDelimiter, DefaultFieldCount, false
	}
	return delimiter, fieldCount, true
}

// Plan is the resolved schema together with the suggestions it came from.
type Plan struct {
	Detected          bool         `json:"detected"`
	DetectedDelimiter string       `json:"detectedDelimiter"`
	FieldCount        int          `json:"fieldCount"`
	SuggestedNames    []string     `json:"suggestedNames"`
	SuggestedTypes    []ColumnType `json:"suggestedTypes"`
	Notices           []Notice     `json:"notices,omitempty"`
	Schema            Schema       `json:"schema"`
}

// Suggest inspects path and resolves a schema, applying any overrides.
// Only a missing or unreadable path is an error; detection problems fall
// back to defaults.
func Suggest(path string, sampling Sampling, o Overrides) (Plan, error) {
	if err := CheckFile(path); err != nil {
		return Plan{}, err
	}

	delim, count, detected := DetectStructure(path, sampling.DelimiterLines)
	plan := Plan{Detected: detected, DetectedDelimiter: delim, FieldCount: count}

	delim = ApplyDelimiter(delim, o.Delimiter)

	plan.SuggestedNames = SuggestNames(count, delim, path)
	names, notice := ApplyNames(plan.SuggestedNames, o.Names, count)
	if notice != nil {
		plan.Notices = append(plan.Notices, *notice)
	}

	plan.SuggestedTypes = ConformTypes(InferTypes(path, delim, sampling.TypeLines), count)
	types, notice := ApplyTypes(plan.SuggestedTypes, o.Types, count)
	if notice != nil {
		plan.Notices = append(plan.Notices, *notice)
	}

	schema, err := NewSchema(delim, names, types)
	if err != nil {
		return plan, err
	}
	plan.Schema = schema
	return plan, nil
}

// RunOptions controls processing and report output.
type RunOptions struct {
	// ReportDir is where the report is written; empty means the working directory.
	ReportDir string

	// Source names the report; defaults to the base name of the input path.
	Source string

	Process ProcessOptions
}

// Outcome is everything a completed run produced.
type Outcome struct {
	Result     Result
	Report     Report
	ReportPath string
	Duration   time.Duration
}

// Run processes path against schema and writes the report.
// Errors abort the run: the input could not be read or the report could
// not be written.
func Run(path string, schema Schema, opts RunOptions) (Outcome, error) {
	start := time.Now()

	source := opts.Source
	if source == "" {
		source = filepath.Base(path)
	}

	res, err := ProcessFile(path, schema, opts.Process)
	if err != nil {
		return Outcome{}, err
	}

	report := NewReport(source, res)
	reportPath, err := WriteReport(opts.ReportDir, report)
	if err != nil {
		return Outcome{Result: res, Report: report}, err
	}

	out := Outcome{
		Result:     res,
		Report:     report,
		ReportPath: reportPath,
		Duration:   time.Since(start),
	}

	slog.Info("processing complete",
		"source", source,
		"schema", schema.String(),
		"total", report.TotalLines,
		"correct", report.CorrectCount,
		"incorrect", report.IncorrectCount,
		"header_skipped", res.HeaderSkipped,
		"report", reportPath,
		"duration_ms", out.Duration.Milliseconds(),
	)
	return out, nil
}

// Execute is Suggest followed by Run.
func Execute(path string, sampling Sampling, o Overrides, opts RunOptions) (Plan, Outcome, error) {
	plan, err := Suggest(path, sampling, o)
	if err != nil {
		return plan, Outcome{}, fmt.Errorf("suggest: %w", err)
	}
	opts.Process.SuggestedNames = plan.SuggestedNames
	out, err := Run(path, plan.Schema, opts)
	return plan, out, err
}
