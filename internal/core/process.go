package core

// process.go drives a whole file through splitting, field-count checking,
// and per-field validation.
//
// The processor is single-pass and synchronous. Blank lines are skipped and
// not counted. Line numbers are physical, so a consumed header shifts the
// first data line to 2. Any read or decode failure aborts the run; record
// level problems never do.

import (
	"fmt"
	"slices"
	"strings"
)

// ProcessOptions controls optional processor behavior.
type ProcessOptions struct {
	// DetectHeader consumes the first line when its fragments equal the
	// schema's column names.
	DetectHeader bool

	// SuggestedNames, when set, restricts header detection to schemas whose
	// names are exactly the suggested ones. Names typed by a user that
	// happen to match the first line do not consume it.
	SuggestedNames []string
}

// skipsHeader reports whether first is a header line to consume.
func (o ProcessOptions) skipsHeader(first string, schema Schema) bool {
	if !o.DetectHeader || first == "" {
		return false
	}
	names := schema.Names()
	if o.SuggestedNames != nil && !slices.Equal(names, o.SuggestedNames) {
		return false
	}
	return slices.Equal(splitNonEmpty(first, schema.Delimiter()), names)
}

// DefaultProcessOptions enables header detection.
var DefaultProcessOptions = ProcessOptions{DetectHeader: true}

// ProcessFile partitions every non-blank line of path into correct and
// incorrect records according to schema.
func ProcessFile(path string, schema Schema, opts ProcessOptions) (Result, error) {
	var res Result

	if schema.FieldCount() == 0 {
		return res, fmt.Errorf("%w: no columns", ErrInvalidSchema)
	}

	lr, err := openLines(path)
	if err != nil {
		return res, fmt.Errorf("open %s: %w", path, err)
	}
	defer lr.Close()

	first := true

	for {
		line, ok := lr.Next()
		if !ok {
			break
		}
		line = strings.TrimSpace(line)

		if first {
			first = false
			if opts.skipsHeader(line, schema) {
				res.HeaderSkipped = true
				continue
			}
		}

		if line == "" {
			continue
		}
		res.TotalLines++

		correct, incorrect := processLine(schema, lr.LineNumber(), line)
		if incorrect != nil {
			res.Incorrect = append(res.Incorrect, *incorrect)
			continue
		}
		res.Correct = append(res.Correct, *correct)
	}

	if err := lr.Err(); err != nil {
		return res, fmt.Errorf("read %s: %w", path, err)
	}
	return res, nil
}

// processLine validates one trimmed, non-blank line.
// Exactly one of the returned pointers is non-nil.
func processLine(schema Schema, lineNum int, line string) (*CorrectRecord, *IncorrectRecord) {
	parts := splitTrimmed(line, schema.Delimiter())
	if len(parts) != schema.FieldCount() {
		return nil, &IncorrectRecord{
			LineNumber: lineNum,
			Line:       line,
			Reason:     fmt.Sprintf("wrong field count: got %d, expected %d", len(parts), schema.FieldCount()),
		}
	}

	var violations []ValidationError
	values := make(map[string]Value, schema.FieldCount())

	for i, col := range schema.columns {
		errs, val := ValidateField(col.Name, parts[i], col.Type)
		if len(errs) > 0 {
			violations = append(violations, errs...)
			continue
		}
		values[col.Name] = val
	}

	if len(violations) > 0 {
		return nil, &IncorrectRecord{
			LineNumber: lineNum,
			Line:       line,
			Reason:     joinViolations(violations),
		}
	}
	return &CorrectRecord{LineNumber: lineNum, Values: values}, nil
}
