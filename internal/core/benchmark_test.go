package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ============================================================================
// Field Validation Benchmarks
// ============================================================================

// BenchmarkValidateField benchmarks single-field conversion.
// This runs once per field of every record.
func BenchmarkValidateField(b *testing.B) {
	cases := []struct {
		raw string
		typ ColumnType
	}{
		{"12345", ColumnInteger},
		{"  -7  ", ColumnInteger},
		{"3.14159", ColumnFloat},
		{"1e-3", ColumnFloat},
		{"abc", ColumnInteger},
		{"Alice", ColumnText},
		{"   ", ColumnText},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, c := range cases {
			ValidateField("f", c.raw, c.typ)
		}
	}
}

func BenchmarkValidateField_Integer(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ValidateField("id", "1001", ColumnInteger)
	}
}

func BenchmarkValidateField_Float(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ValidateField("amount", "1234.56", ColumnFloat)
	}
}

// ============================================================================
// Record Benchmarks
// ============================================================================

func BenchmarkProcessLine(b *testing.B) {
	schema := benchSchema(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		processLine(schema, 2, "1001,Jane Doe,jane@example.com,1234.56,3")
	}
}

func BenchmarkProcessLine_Rejected(b *testing.B) {
	schema := benchSchema(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		processLine(schema, 2, "x,,jane@example.com,-1,0")
	}
}

// ============================================================================
// File Benchmarks
// ============================================================================

func BenchmarkDetectDelimiter(b *testing.B) {
	path := writeBenchFile(b, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		DetectDelimiter(path, DefaultSampling.DelimiterLines)
	}
}

func BenchmarkInferTypes(b *testing.B) {
	path := writeBenchFile(b, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		InferTypes(path, ",", DefaultSampling.TypeLines)
	}
}

func BenchmarkProcessFile_Large(b *testing.B) {
	path := writeBenchFile(b, 10000)
	schema := benchSchema(b)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ProcessFile(path, schema, DefaultProcessOptions); err != nil {
			b.Fatal(err)
		}
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

func benchSchema(b *testing.B) Schema {
	b.Helper()
	s, err := NewSchema(",",
		[]string{"id", "name", "email", "amount", "qty"},
		[]ColumnType{ColumnInteger, ColumnText, ColumnText, ColumnFloat, ColumnInteger},
	)
	if err != nil {
		b.Fatal(err)
	}
	return s
}

// writeBenchFile writes a header and rows records, every tenth one invalid.
func writeBenchFile(b *testing.B, rows int) string {
	b.Helper()

	var sb strings.Builder
	sb.WriteString("id,name,email,amount,qty\n")
	for i := 1; i <= rows; i++ {
		if i%10 == 0 {
			fmt.Fprintf(&sb, "%d,,broken,-%d.5\n", i, i)
			continue
		}
		fmt.Fprintf(&sb, "%d,Name %d,user%d@example.com,%d.25,%d\n", i, i, i, i, i%7+1)
	}

	path := filepath.Join(b.TempDir(), "bench.csv")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		b.Fatal(err)
	}
	return path
}
