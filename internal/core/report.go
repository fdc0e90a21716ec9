package core

// report.go serializes a Report to a uniquely named text file.
//
// The layout is fixed because downstream tooling parses it: title, total,
// correct/incorrect counts, then either the error list or a no-errors line.
// Files are created exclusively, so an existing report is never replaced;
// the name gets a _1, _2, ... suffix instead.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// maxReportAttempts bounds the suffix search.
const maxReportAttempts = 10000

// ReportName returns the report file name for source with the given suffix
// counter; counter 0 means no numeric suffix.
func ReportName(source string, counter int) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if counter == 0 {
		return base + "_report.txt"
	}
	return fmt.Sprintf("%s_report_%d.txt", base, counter)
}

// WriteReport writes r into dir under a name derived from r.Source and
// returns the path used. An empty dir means the working directory.
func WriteReport(dir string, r Report) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("report write: %w", err)
		}
		dir = wd
	}

	for counter := 0; counter < maxReportAttempts; counter++ {
		path := filepath.Join(dir, ReportName(r.Source, counter))

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("report write: %w", err)
		}

		if err := RenderReport(f, r); err != nil {
			f.Close()
			return "", fmt.Errorf("report write: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("report write: %w", err)
		}
		return path, nil
	}

	return "", fmt.Errorf("report write: no free name for %q after %d attempts", r.Source, maxReportAttempts)
}

// RenderReport writes the text layout of r to w.
func RenderReport(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "Data Processing Report\n")
	fmt.Fprint(bw, "\n\n")
	fmt.Fprintf(bw, "Total records: %d\n\n", r.TotalLines)

	fmt.Fprintf(bw, "Correct records: %d\n", r.CorrectCount)
	fmt.Fprintf(bw, "Incorrect records: %d\n\n", r.IncorrectCount)

	if len(r.Incorrect) > 0 {
		fmt.Fprint(bw, "Error list:\n")
		fmt.Fprint(bw, "\n")
		for _, rec := range r.Incorrect {
			fmt.Fprintf(bw, "\nLine %d:\n", rec.LineNumber)
			fmt.Fprintf(bw, "  Data: %s\n", rec.Line)
			fmt.Fprintf(bw, "  Reason: %s\n", rec.Reason)
		}
	} else {
		fmt.Fprint(bw, "No errors found\n")
	}

	return bw.Flush()
}

// FormatReport returns the text layout of r as a string.
func FormatReport(r Report) string {
	var b strings.Builder
	_ = RenderReport(&b, r)
	return b.String()
}
