package interactive

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/linecheck/internal/core"
	"github.com/JonMunkholm/linecheck/internal/history"
)

const peopleCSV = "id,name,age\n1,Alice,30\n2,Bob,-5\nx,Carol,40\n"

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func baseOptions(t *testing.T) Options {
	return Options{
		Sampling:      core.DefaultSampling,
		Process:       core.DefaultProcessOptions,
		ReportDir:     t.TempDir(),
		PreviewErrors: 1,
	}
}

// recordingStore keeps saved runs in memory.
type recordingStore struct {
	history.Discard
	runs []history.Run
	err  error
}

func (r *recordingStore) SaveRun(_ context.Context, run history.Run) error {
	if r.err != nil {
		return r.err
	}
	r.runs = append(r.runs, run)
	return nil
}

func TestSession_Prompted(t *testing.T) {
	path := writeInput(t, "people.csv", peopleCSV)
	missing := filepath.Join(t.TempDir(), "nope.csv")

	answers := strings.Join([]string{
		missing,          // rejected, asked again
		path,             // accepted
		"n",              // keep delimiter
		"",               // accept names
		"int,string,int", // override types
	}, "\n") + "\n"

	var out bytes.Buffer
	store := &recordingStore{}
	s := New(strings.NewReader(answers), &out, baseOptions(t), store)

	got, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v\noutput:\n%s", err, out.String())
	}

	if got.Report.TotalLines != 3 || got.Report.CorrectCount != 1 || got.Report.IncorrectCount != 2 {
		t.Errorf("report = %+v", got.Report)
	}
	if !got.Result.HeaderSkipped {
		t.Error("header was not skipped")
	}

	text := out.String()
	for _, want := range []string{
		"Error: File not found",
		"Detected delimiter: ','",
		"Suggested names: id, name, age",
		"Column types: int, string, int",
		"First line matches the column names and was skipped",
		"  Line 3: 2,Bob,-5\n    -> age: non-positive number\n",
		"Report saved to " + got.ReportPath,
		"Incorrect records: 2\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q\noutput:\n%s", want, text)
		}
	}
	// PreviewErrors is 1, so line 4 only appears in the echoed report.
	if strings.Contains(text, "  Line 4: x,Carol,40\n    ->") {
		t.Error("preview shows more errors than configured")
	}

	if len(store.runs) != 1 || store.runs[0].Source != "people.csv" || store.runs[0].IncorrectCount != 2 {
		t.Errorf("saved runs = %+v", store.runs)
	}
}

func TestSession_TabDelimiterAndNameNotice(t *testing.T) {
	path := writeInput(t, "scores.txt", "a;b\n1;2\n")

	answers := path + "\ny\n\t\nx,y,z\n\n"
	var out bytes.Buffer
	got, err := New(strings.NewReader(answers), &out, baseOptions(t), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v\noutput:\n%s", err, out.String())
	}

	text := out.String()
	if !strings.Contains(text, "Delimiter set to TAB") {
		t.Errorf("tab delimiter not applied\noutput:\n%s", text)
	}
	if !strings.Contains(text, "3 names given, 2 needed") {
		t.Errorf("missing name notice\noutput:\n%s", text)
	}
	// With a tab delimiter every line is one field short.
	if got.Report.IncorrectCount != 2 {
		t.Errorf("incorrect = %d, want 2", got.Report.IncorrectCount)
	}
}

func TestSession_AcceptAll(t *testing.T) {
	opts := baseOptions(t)
	opts.Path = writeInput(t, "people.csv", peopleCSV)
	opts.AcceptAll = true
	opts.Overrides.Types = "int,str,int"

	var out bytes.Buffer
	got, err := New(strings.NewReader(""), &out, opts, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got.Report.IncorrectCount != 2 {
		t.Errorf("incorrect = %d, want 2", got.Report.IncorrectCount)
	}
	if strings.Contains(out.String(), "(y/n)") {
		t.Error("prompted despite AcceptAll")
	}
	if _, err := os.Stat(got.ReportPath); err != nil {
		t.Errorf("report file: %v", err)
	}
}

func TestSession_Errors(t *testing.T) {
	tests := []struct {
		name    string
		opts    func(*Options)
		input   string
		wantErr error
	}{
		{
			name:    "input ends at path prompt",
			input:   "",
			wantErr: ErrAborted,
		},
		{
			name:    "input ends mid-session",
			input:   "PATH\nn\n",
			wantErr: ErrAborted,
		},
		{
			name:    "preset path missing",
			opts:    func(o *Options) { o.Path = "/does/not/exist.csv" },
			wantErr: os.ErrNotExist,
		},
		{
			name:    "accept all without path",
			opts:    func(o *Options) { o.AcceptAll = true },
			wantErr: core.ErrEmptyPath,
		},
		{
			name:    "undecodable input",
			opts:    func(o *Options) { o.AcceptAll = true; o.Path = "PATH_BAD" },
			wantErr: core.ErrEncoding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			good := writeInput(t, "people.csv", peopleCSV)
			bad := writeInput(t, "bad.csv", "a,b\n\xff,c\n")

			opts := baseOptions(t)
			if tt.opts != nil {
				tt.opts(&opts)
			}
			if opts.Path == "PATH_BAD" {
				opts.Path = bad
			}
			input := strings.ReplaceAll(tt.input, "PATH", good)

			_, err := New(strings.NewReader(input), &bytes.Buffer{}, opts, nil).Run(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSession_HistoryFailureIsWarning(t *testing.T) {
	opts := baseOptions(t)
	opts.Path = writeInput(t, "people.csv", peopleCSV)
	opts.AcceptAll = true

	store := &recordingStore{err: history.Wrap("save run", errors.New("disk full"))}
	var out bytes.Buffer
	if _, err := New(strings.NewReader(""), &out, opts, store).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Warning: ") {
		t.Errorf("missing history warning\noutput:\n%s", out.String())
	}
}
