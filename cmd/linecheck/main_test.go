package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("HISTORY_DRIVER", "none")

	input := filepath.Join(t.TempDir(), "people.csv")
	if err := os.WriteFile(input, []byte("id,name,age\n1,Alice,30\n2,Bob,-5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		args       func(reportDir string) []string
		stdin      string
		wantCode   int
		wantReport bool
		wantStderr string
	}{
		{
			name: "non-interactive",
			args: func(dir string) []string {
				return []string{"-file", input, "-types", "int,string,int", "-yes", "-report-dir", dir}
			},
			wantCode:   exitOK,
			wantReport: true,
		},
		{
			name: "prompted",
			args: func(dir string) []string {
				return []string{"-report-dir", dir}
			},
			stdin:      input + "\nn\n\n\n",
			wantCode:   exitOK,
			wantReport: true,
		},
		{
			name:       "unknown flag",
			args:       func(string) []string { return []string{"-bogus"} },
			wantCode:   exitUsage,
			wantStderr: "flag provided but not defined",
		},
		{
			name:       "positional argument",
			args:       func(string) []string { return []string{"people.csv"} },
			wantCode:   exitUsage,
			wantStderr: "unexpected arguments",
		},
		{
			name: "missing file",
			args: func(dir string) []string {
				return []string{"-file", filepath.Join(dir, "missing.csv"), "-yes", "-report-dir", dir}
			},
			wantCode:   exitFatal,
			wantStderr: "FILE001",
		},
		{
			name: "stdin closed",
			args: func(dir string) []string {
				return []string{"-report-dir", dir}
			},
			wantCode:   exitFatal,
			wantStderr: "input closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			var stdout, stderr bytes.Buffer

			code := run(context.Background(), tt.args(dir), strings.NewReader(tt.stdin), &stdout, &stderr)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d\nstderr:\n%s", code, tt.wantCode, stderr.String())
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantStderr, stderr.String())
			}

			_, err := os.Stat(filepath.Join(dir, "people_report.txt"))
			if tt.wantReport && err != nil {
				t.Errorf("report not written: %v", err)
			}
			if !tt.wantReport && err == nil {
				t.Error("unexpected report")
			}
		})
	}
}
