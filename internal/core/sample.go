package core

// sample.go reads input files line by line.
//
// Every reader in this package goes through openLines, which validates UTF-8
// on the raw bytes and strips a leading byte order mark. Detection helpers
// read a bounded sample and close the file before returning; the record
// processor reads the file to the end.

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// maxLineSize bounds a single line held by the scanner.
const maxLineSize = 4 * 1024 * 1024

// lineReader yields the physical lines of a file with their 1-based numbers.
type lineReader struct {
	f    *os.File
	sc   *bufio.Scanner
	line int
}

// openLines opens path for line-oriented reading.
func openLines(path string) (*lineReader, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	// Validate before BOM removal so invalid bytes are never silently replaced.
	t := transform.Chain(encoding.UTF8Validator, unicode.BOMOverride(transform.Nop))
	sc := bufio.NewScanner(transform.NewReader(f, t))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &lineReader{f: f, sc: sc}, nil
}

// Next returns the next physical line without its line terminator.
func (r *lineReader) Next() (string, bool) {
	if !r.sc.Scan() {
		return "", false
	}
	r.line++
	return r.sc.Text(), true
}

// LineNumber returns the 1-based number of the last line returned by Next.
func (r *lineReader) LineNumber() int { return r.line }

// Err returns the first read error, mapping decoder failures to ErrEncoding.
func (r *lineReader) Err() error {
	err := r.sc.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, encoding.ErrInvalidUTF8) {
		return fmt.Errorf("%w: invalid UTF-8 after line %d", ErrEncoding, r.line)
	}
	return err
}

func (r *lineReader) Close() error { return r.f.Close() }

// readSample returns the non-blank lines among the first n physical lines,
// each trimmed. Blank lines use up the window without being returned.
func readSample(path string, n int) ([]string, error) {
	lr, err := openLines(path)
	if err != nil {
		return nil, err
	}
	defer lr.Close()

	lines := make([]string, 0, n)
	for lr.LineNumber() < n {
		line, ok := lr.Next()
		if !ok {
			break
		}
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// readFirstLine returns the first physical line of path, trimmed.
func readFirstLine(path string) (string, error) {
	lr, err := openLines(path)
	if err != nil {
		return "", err
	}
	defer lr.Close()

	line, _ := lr.Next()
	if err := lr.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// splitTrimmed splits line on delimiter and trims every fragment.
func splitTrimmed(line, delimiter string) []string {
	parts := strings.Split(line, delimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// splitNonEmpty splits line on delimiter, trims fragments, and drops the
// ones that end up empty.
func splitNonEmpty(line, delimiter string) []string {
	parts := strings.Split(line, delimiter)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CheckFile reports whether path names an existing regular file.
func CheckFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrEmptyPath
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}
	return nil
}
