package core

import (
	"os"
	"path/filepath"
	"testing"
)

// writeInput writes content to a file named name in a fresh temp dir.
func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// mustSchema builds a schema or fails the test.
func mustSchema(t *testing.T, delim string, names []string, types []ColumnType) Schema {
	t.Helper()
	s, err := NewSchema(delim, names, types)
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	return s
}
