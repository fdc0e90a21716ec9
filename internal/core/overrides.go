package core

// overrides.go applies user-supplied replacements to the suggested schema.
//
// Overrides are plain strings as typed by a user or sent in a form. A name or
// type list whose length does not match the expected field count is
// discarded as a whole and the suggestion is kept; the caller receives a
// Notice to show the user.

import (
	"fmt"
	"strings"
)

// typeSynonyms maps accepted spellings to column types.
// Anything not listed is text.
var typeSynonyms = map[string]ColumnType{
	"int":     ColumnInteger,
	"integer": ColumnInteger,
	"float":   ColumnFloat,
	"decimal": ColumnFloat,
	"string":  ColumnText,
	"str":     ColumnText,
}

// ParseColumnType normalizes s via the synonym table.
func ParseColumnType(s string) ColumnType {
	if t, ok := typeSynonyms[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return ColumnText
}

// Notice is a user-facing message about a rejected override.
type Notice struct {
	Field    string `json:"field"`
	Got      int    `json:"got"`
	Expected int    `json:"expected"`
}

func (n Notice) String() string {
	return fmt.Sprintf("%d %s given, %d needed; using the suggested %s", n.Got, n.Field, n.Expected, n.Field)
}

// Overrides holds raw user input. Empty strings mean "accept the suggestion".
type Overrides struct {
	Delimiter string
	Names     string
	Types     string
}

// ApplyDelimiter returns the override when one was given, else detected.
// A literal tab, the two characters \t, or the word "tab" all select tab.
func ApplyDelimiter(detected, override string) string {
	if override == "" {
		return detected
	}
	t := strings.TrimSpace(override)
	switch {
	case t == "" && strings.Contains(override, "\t"):
		return "\t"
	case t == "":
		return detected
	case t == `\t` || strings.EqualFold(t, "tab"):
		return "\t"
	}
	return t
}

// ApplyNames parses a comma-separated name list. It returns suggested and a
// Notice when the count does not match expected.
func ApplyNames(suggested []string, input string, expected int) ([]string, *Notice) {
	input = strings.TrimSpace(input)
	if input == "" {
		return suggested, nil
	}

	names := strings.Split(input, ",")
	for i := range names {
		names[i] = strings.TrimSpace(names[i])
	}
	if len(names) != expected {
		return suggested, &Notice{Field: "names", Got: len(names), Expected: expected}
	}
	return names, nil
}

// ApplyTypes parses a comma-separated type list through the synonym table.
// It returns suggested and a Notice when the count does not match expected.
func ApplyTypes(suggested []ColumnType, input string, expected int) ([]ColumnType, *Notice) {
	input = strings.TrimSpace(input)
	if input == "" {
		return suggested, nil
	}

	raw := strings.Split(input, ",")
	types := make([]ColumnType, len(raw))
	for i, t := range raw {
		types[i] = ParseColumnType(t)
	}
	if len(types) != expected {
		return suggested, &Notice{Field: "types", Got: len(types), Expected: expected}
	}
	return types, nil
}

// ConformTypes truncates types, or pads them with text, to length n.
func ConformTypes(types []ColumnType, n int) []ColumnType {
	out := make([]ColumnType, n)
	copy(out, types)
	for i := len(types); i < n; i++ {
		out[i] = ColumnText
	}
	return out
}

// TypeNames renders types by their canonical names.
func TypeNames(types []ColumnType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
