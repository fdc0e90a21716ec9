package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReportName(t *testing.T) {
	tests := []struct {
		source  string
		counter int
		want    string
	}{
		{"sales.csv", 0, "sales_report.txt"},
		{"data/sales.csv", 2, "sales_report_2.txt"},
		{"notes", 0, "notes_report.txt"},
		{"archive.tar.gz", 1, "archive.tar_report_1.txt"},
	}
	for _, tt := range tests {
		if got := ReportName(tt.source, tt.counter); got != tt.want {
			t.Errorf("ReportName(%q, %d) = %q, want %q", tt.source, tt.counter, got, tt.want)
		}
	}
}

func TestFormatReport(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		got := FormatReport(Report{Source: "a.csv", TotalLines: 2, CorrectCount: 2})
		want := "Data Processing Report\n\n\n" +
			"Total records: 2\n\n" +
			"Correct records: 2\n" +
			"Incorrect records: 0\n\n" +
			"No errors found\n"
		if got != want {
			t.Errorf("FormatReport() =\n%q\nwant\n%q", got, want)
		}
	})

	t.Run("with errors", func(t *testing.T) {
		got := FormatReport(Report{
			Source:         "a.csv",
			TotalLines:     3,
			CorrectCount:   1,
			IncorrectCount: 2,
			Incorrect: []IncorrectRecord{
				{LineNumber: 2, Line: "2,Bob,-5", Reason: "age: non-positive number"},
				{LineNumber: 3, Line: "x,Carol,40", Reason: "id: not an integer"},
			},
		})
		want := "Data Processing Report\n\n\n" +
			"Total records: 3\n\n" +
			"Correct records: 1\n" +
			"Incorrect records: 2\n\n" +
			"Error list:\n\n" +
			"\nLine 2:\n  Data: 2,Bob,-5\n  Reason: age: non-positive number\n" +
			"\nLine 3:\n  Data: x,Carol,40\n  Reason: id: not an integer\n"
		if got != want {
			t.Errorf("FormatReport() =\n%q\nwant\n%q", got, want)
		}
	})
}

func TestWriteReport_NeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	r := Report{Source: "input.csv", TotalLines: 1, CorrectCount: 1}

	first, err := WriteReport(dir, r)
	if err != nil {
		t.Fatalf("first WriteReport() error = %v", err)
	}
	if filepath.Base(first) != "input_report.txt" {
		t.Errorf("first report = %q, want input_report.txt", first)
	}

	r.TotalLines = 9
	second, err := WriteReport(dir, r)
	if err != nil {
		t.Fatalf("second WriteReport() error = %v", err)
	}
	if !strings.HasSuffix(second, "_report_1.txt") {
		t.Errorf("second report = %q, want suffix _report_1.txt", second)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("read first report: %v", err)
	}
	if !strings.Contains(string(data), "Total records: 1\n") {
		t.Errorf("first report was modified:\n%s", data)
	}
}

func TestWriteReport_SkipsTakenNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"in_report.txt", "in_report_1.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("keep"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	path, err := WriteReport(dir, Report{Source: "in.csv"})
	if err != nil {
		t.Fatalf("WriteReport() error = %v", err)
	}
	if filepath.Base(path) != "in_report_2.txt" {
		t.Errorf("report = %q, want in_report_2.txt", path)
	}
}

func TestWriteReport_MissingDir(t *testing.T) {
	_, err := WriteReport(filepath.Join(t.TempDir(), "nope"), Report{Source: "a.csv"})
	if err == nil {
		t.Fatal("WriteReport() into missing dir succeeded")
	}
	if code := MapError(err).Code; code != "RPT001" {
		t.Errorf("MapError code = %q, want RPT001", code)
	}
}
