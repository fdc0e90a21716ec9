package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ColumnType represents the expected data type for a delimited field.
type ColumnType int

const (
	ColumnText ColumnType = iota
	ColumnInteger
	ColumnFloat
)

// String returns the canonical name used in prompts, reports, and overrides.
func (t ColumnType) String() string {
	switch t {
	case ColumnInteger:
		return "int"
	case ColumnFloat:
		return "float"
	default:
		return "string"
	}
}

// MarshalText implements encoding.TextMarshaler so types serialize by name.
func (t ColumnType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using the synonym table.
func (t *ColumnType) UnmarshalText(b []byte) error {
	*t = ParseColumnType(string(b))
	return nil
}

// Column pairs a column name with its declared type.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Schema is the resolved structure every record is validated against.
// The expected field count is always len(Columns).
type Schema struct {
	delimiter string
	columns   []Column
}

// NewSchema builds a Schema from parallel name and type slices.
// Returns ErrInvalidSchema if the delimiter is empty, no columns are given,
// or the slices differ in length.
func NewSchema(delimiter string, names []string, types []ColumnType) (Schema, error) {
	if delimiter == "" {
		return Schema{}, fmt.Errorf("%w: empty delimiter", ErrInvalidSchema)
	}
	if len(names) == 0 {
		return Schema{}, fmt.Errorf("%w: no columns", ErrInvalidSchema)
	}
	if len(names) != len(types) {
		return Schema{}, fmt.Errorf("%w: %d names but %d types", ErrInvalidSchema, len(names), len(types))
	}

	cols := make([]Column, len(names))
	for i := range names {
		cols[i] = Column{Name: names[i], Type: types[i]}
	}
	return Schema{delimiter: delimiter, columns: cols}, nil
}

// Delimiter returns the field separator.
func (s Schema) Delimiter() string { return s.delimiter }

// FieldCount returns the number of fields each record must have.
func (s Schema) FieldCount() int { return len(s.columns) }

// Columns returns a copy of the ordered columns.
func (s Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Names returns the ordered column names.
func (s Schema) Names() []string {
	out := make([]string, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.Name
	}
	return out
}

// Types returns the ordered column types.
func (s Schema) Types() []ColumnType {
	out := make([]ColumnType, len(s.columns))
	for i, c := range s.columns {
		out[i] = c.Type
	}
	return out
}

// String renders the schema as "name:type, ..." for logs and history rows.
func (s Schema) String() string {
	parts := make([]string, len(s.columns))
	for i, c := range s.columns {
		parts[i] = c.Name + ":" + c.Type.String()
	}
	return fmt.Sprintf("delimiter=%q columns=[%s]", s.delimiter, strings.Join(parts, ", "))
}

// MarshalJSON renders the schema as {"delimiter": ..., "columns": [...]}.
func (s Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Delimiter string   `json:"delimiter"`
		Columns   []Column `json:"columns"`
	}{s.delimiter, s.columns})
}

// Value is a converted field value. Valid is false when the raw value
// could not be converted; exactly one of Int, Float, Text is meaningful
// depending on Type.
type Value struct {
	Type  ColumnType
	Int   int64
	Float float64
	Text  string
	Valid bool
}

// Any returns the Go value held by v, or nil if v is not valid.
func (v Value) Any() any {
	if !v.Valid {
		return nil
	}
	switch v.Type {
	case ColumnInteger:
		return v.Int
	case ColumnFloat:
		return v.Float
	default:
		return v.Text
	}
}

// String formats the value the way it would appear in a delimited file.
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	switch v.Type {
	case ColumnInteger:
		return strconv.FormatInt(v.Int, 10)
	case ColumnFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return v.Text
	}
}

// CorrectRecord is a record whose every field passed validation.
type CorrectRecord struct {
	LineNumber int
	Values     map[string]Value
}

// IncorrectRecord is a record rejected by validation, with the joined reason.
type IncorrectRecord struct {
	LineNumber int    `json:"lineNumber"`
	Line       string `json:"line"`
	Reason     string `json:"reason"`
}

// Result is the full partition produced by the record processor.
type Result struct {
	TotalLines    int
	HeaderSkipped bool
	Correct       []CorrectRecord
	Incorrect     []IncorrectRecord
}

// Report is the summary written to disk once processing has finished.
type Report struct {
	Source         string            `json:"source"`
	TotalLines     int               `json:"totalLines"`
	CorrectCount   int               `json:"correctCount"`
	IncorrectCount int               `json:"incorrectCount"`
	Incorrect      []IncorrectRecord `json:"incorrect"`
}

// NewReport builds a Report for source from a processing result.
func NewReport(source string, res Result) Report {
	incorrect := make([]IncorrectRecord, len(res.Incorrect))
	copy(incorrect, res.Incorrect)
	return Report{
		Source:         source,
		TotalLines:     res.TotalLines,
		CorrectCount:   len(res.Correct),
		IncorrectCount: len(res.Incorrect),
		Incorrect:      incorrect,
	}
}

// Sampling bounds the number of lines the detectors look at.
type Sampling struct {
	DelimiterLines int
	TypeLines      int
}

// DefaultSampling mirrors the configuration defaults.
var DefaultSampling = Sampling{DelimiterLines: 5, TypeLines: 10}
