package core

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

var peopleSchema = func() Schema {
	s, _ := NewSchema(",", []string{"id", "name", "age"},
		[]ColumnType{ColumnInteger, ColumnText, ColumnInteger})
	return s
}()

func TestProcessFile(t *testing.T) {
	type wantBad struct {
		line   int
		reason string
	}

	tests := []struct {
		name          string
		content       string
		schema        Schema
		opts          ProcessOptions
		wantTotal     int
		wantCorrect   int
		wantHeader    bool
		wantIncorrect []wantBad
	}{
		{
			name:        "mixed records",
			content:     "1,Alice,30\n2,Bob,-5\nx,Carol,40\n",
			schema:      peopleSchema,
			opts:        DefaultProcessOptions,
			wantTotal:   3,
			wantCorrect: 1,
			wantIncorrect: []wantBad{
				{2, "age: non-positive number"},
				{3, "id: not an integer"},
			},
		},
		{
			name:        "header skipped and line numbers stay physical",
			content:     "id,name,age\n1,Alice,30\nx,Bob,2\n",
			schema:      peopleSchema,
			opts:        DefaultProcessOptions,
			wantTotal:   2,
			wantCorrect: 1,
			wantHeader:  true,
			wantIncorrect: []wantBad{
				{3, "id: not an integer"},
			},
		},
		{
			name:    "typed names matching the first line do not consume it",
			content: "id,name,age\n1,Alice,30\n",
			schema:  peopleSchema,
			opts: ProcessOptions{
				DetectHeader:   true,
				SuggestedNames: []string{"column_1", "column_2", "column_3"},
			},
			wantTotal:   2,
			wantCorrect: 1,
			wantIncorrect: []wantBad{
				{1, "id: not an integer; age: not an integer"},
			},
		},
		{
			name:    "suggested names consume the header",
			content: "id,name,age\n1,Alice,30\n",
			schema:  peopleSchema,
			opts: ProcessOptions{
				DetectHeader:   true,
				SuggestedNames: []string{"id", "name", "age"},
			},
			wantTotal:   1,
			wantCorrect: 1,
			wantHeader:  true,
		},
		{
			name:        "header counted when detection is off",
			content:     "id,name,age\n1,Alice,30\n",
			schema:      peopleSchema,
			opts:        ProcessOptions{},
			wantTotal:   2,
			wantCorrect: 1,
			wantIncorrect: []wantBad{
				{1, "id: not an integer; age: not an integer"},
			},
		},
		{
			name:        "blank lines skipped and not counted",
			content:     "1,a,2\n\n   \n3,b,4x\n",
			schema:      peopleSchema,
			opts:        DefaultProcessOptions,
			wantTotal:   2,
			wantCorrect: 1,
			wantIncorrect: []wantBad{
				{4, "age: not an integer"},
			},
		},
		{
			name:        "wrong field count",
			content:     "1,a\n1,a,2,\n",
			schema:      peopleSchema,
			opts:        DefaultProcessOptions,
			wantTotal:   2,
			wantCorrect: 0,
			wantIncorrect: []wantBad{
				{1, "wrong field count: got 2, expected 3"},
				{2, "wrong field count: got 4, expected 3"},
			},
		},
		{
			name:        "every violation is reported in column order",
			content:     ",x,y\n",
			schema:      peopleSchema,
			opts:        DefaultProcessOptions,
			wantTotal:   1,
			wantCorrect: 0,
			wantIncorrect: []wantBad{
				{1, "id: empty value; age: not an integer"},
			},
		},
		{
			name:        "empty middle field",
			content:     "1,,3\n",
			schema:      peopleSchema,
			opts:        DefaultProcessOptions,
			wantTotal:   1,
			wantCorrect: 0,
			wantIncorrect: []wantBad{
				{1, "name: empty value"},
			},
		},
		{
			name:        "empty file",
			content:     "",
			schema:      peopleSchema,
			opts:        DefaultProcessOptions,
			wantTotal:   0,
			wantCorrect: 0,
		},
		{
			name:        "byte order mark before header",
			content:     "\xef\xbb\xbfid,name,age\n1,Alice,30\n",
			schema:      peopleSchema,
			opts:        DefaultProcessOptions,
			wantTotal:   1,
			wantCorrect: 1,
			wantHeader:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeInput(t, "data.csv", tt.content)

			res, err := ProcessFile(path, tt.schema, tt.opts)
			if err != nil {
				t.Fatalf("ProcessFile() error = %v", err)
			}

			if res.TotalLines != tt.wantTotal {
				t.Errorf("TotalLines = %d, want %d", res.TotalLines, tt.wantTotal)
			}
			if len(res.Correct) != tt.wantCorrect {
				t.Errorf("correct = %d, want %d", len(res.Correct), tt.wantCorrect)
			}
			if res.HeaderSkipped != tt.wantHeader {
				t.Errorf("HeaderSkipped = %v, want %v", res.HeaderSkipped, tt.wantHeader)
			}
			if len(res.Correct)+len(res.Incorrect) != res.TotalLines {
				t.Errorf("correct + incorrect = %d, want TotalLines %d",
					len(res.Correct)+len(res.Incorrect), res.TotalLines)
			}
			if len(res.Incorrect) != len(tt.wantIncorrect) {
				t.Fatalf("incorrect = %+v, want %d records", res.Incorrect, len(tt.wantIncorrect))
			}
			for i, w := range tt.wantIncorrect {
				got := res.Incorrect[i]
				if got.LineNumber != w.line {
					t.Errorf("incorrect[%d].LineNumber = %d, want %d", i, got.LineNumber, w.line)
				}
				if got.Reason != w.reason {
					t.Errorf("incorrect[%d].Reason = %q, want %q", i, got.Reason, w.reason)
				}
			}
		})
	}
}

func TestProcessFile_ConvertedValues(t *testing.T) {
	path := writeInput(t, "data.csv", " 7 , Alice , 30 \n")

	res, err := ProcessFile(path, peopleSchema, DefaultProcessOptions)
	if err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if len(res.Correct) != 1 {
		t.Fatalf("correct = %d, want 1", len(res.Correct))
	}

	rec := res.Correct[0]
	if rec.LineNumber != 1 {
		t.Errorf("LineNumber = %d, want 1", rec.LineNumber)
	}
	if v := rec.Values["id"]; v.Int != 7 || !v.Valid {
		t.Errorf("id = %+v, want 7", v)
	}
	if v := rec.Values["name"]; v.Text != "Alice" {
		t.Errorf("name = %+v, want Alice", v)
	}
	if v := rec.Values["age"]; v.Int != 30 {
		t.Errorf("age = %+v, want 30", v)
	}
}

func TestProcessFile_IncorrectKeepsTrimmedLine(t *testing.T) {
	path := writeInput(t, "data.csv", "  2,Bob,-5  \n")

	res, err := ProcessFile(path, peopleSchema, DefaultProcessOptions)
	if err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if len(res.Incorrect) != 1 || res.Incorrect[0].Line != "2,Bob,-5" {
		t.Errorf("incorrect = %+v, want line %q", res.Incorrect, "2,Bob,-5")
	}
}

func TestProcessFile_OtherDelimiter(t *testing.T) {
	schema := mustSchema(t, "\t", []string{"sku", "price"}, []ColumnType{ColumnText, ColumnFloat})
	path := writeInput(t, "prices.tsv", "sku\tprice\nA1\t9.99\nB2\t-1\n")

	res, err := ProcessFile(path, schema, DefaultProcessOptions)
	if err != nil {
		t.Fatalf("ProcessFile() error = %v", err)
	}
	if !res.HeaderSkipped || res.TotalLines != 2 || len(res.Correct) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if got := res.Incorrect[0].Reason; got != "price: negative number" {
		t.Errorf("reason = %q", got)
	}
}

func TestProcessFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ProcessFile(filepath.Join(t.TempDir(), "missing.csv"), peopleSchema, DefaultProcessOptions)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("error = %v, want fs.ErrNotExist", err)
		}
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		path := writeInput(t, "data.csv", "1,a,2\n3,\xff\xfe,4\n")
		_, err := ProcessFile(path, peopleSchema, DefaultProcessOptions)
		if !errors.Is(err, ErrEncoding) {
			t.Errorf("error = %v, want ErrEncoding", err)
		}
	})

	t.Run("empty schema", func(t *testing.T) {
		path := writeInput(t, "data.csv", "1\n")
		_, err := ProcessFile(path, Schema{}, DefaultProcessOptions)
		if !errors.Is(err, ErrInvalidSchema) {
			t.Errorf("error = %v, want ErrInvalidSchema", err)
		}
	})
}
