package core

// validation.go converts and validates single fields against a declared type.
//
// Rules are applied in order:
//  1. Empty (after trimming) fails with "empty value" and nothing else is checked
//  2. Integers must parse in base 10; values <= 0 are flagged "non-positive number"
//  3. Floats must parse; values < 0 are flagged "negative number" (zero is fine)
//  4. Text only has the emptiness rule
//
// A range violation still returns the converted value alongside the
// violation. The record containing it is rejected all the same, since any
// violation rejects the whole record.

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Violation reasons.
const (
	ReasonEmpty       = "empty value"
	ReasonNotInteger  = "not an integer"
	ReasonNonPositive = "non-positive number"
	ReasonNotNumber   = "not a number"
	ReasonNegative    = "negative number"
)

// ValidationError represents a single validation failure for a field.
type ValidationError struct {
	Field   string // Column name
	Value   string // The trimmed raw value
	Message string // Human-readable reason
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidateField converts raw to typ and checks the semantic constraints.
//
// It returns either violations and an invalid Value, or no violations and a
// valid Value. The one exception is a non-positive integer, which returns both
// a violation and the valid converted Value.
func ValidateField(name, raw string, typ ColumnType) ([]ValidationError, Value) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return []ValidationError{{Field: name, Message: ReasonEmpty}}, Value{Type: typ}
	}

	switch typ {
	case ColumnInteger:
		val := ToInteger(v)
		if !val.Valid {
			return []ValidationError{{Field: name, Value: v, Message: ReasonNotInteger}}, val
		}
		if val.Int <= 0 {
			return []ValidationError{{Field: name, Value: v, Message: ReasonNonPositive}}, val
		}
		return nil, val

	case ColumnFloat:
		val := ToFloat(v)
		if !val.Valid {
			return []ValidationError{{Field: name, Value: v, Message: ReasonNotNumber}}, val
		}
		if val.Float < 0 {
			return []ValidationError{{Field: name, Value: v, Message: ReasonNegative}}, val
		}
		return nil, val

	default:
		return nil, ToText(v)
	}
}

// ToInteger converts s to an integer Value.
// Digits may be grouped with single underscores ("1_000"). Fractional,
// exponent, and prefixed (0x, 0o, 0b) forms are rejected, as is anything
// outside the int64 range.
func ToInteger(s string) Value {
	digits, ok := stripDigitGroups(strings.TrimSpace(s))
	if !ok {
		return Value{Type: ColumnInteger}
	}
	i, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Value{Type: ColumnInteger}
	}
	return Value{Type: ColumnInteger, Int: i, Valid: true}
}

// ToFloat converts s to a float Value.
// Decimal and exponent forms are accepted, including inf and nan; a
// magnitude too large for float64 becomes an infinity. Hexadecimal
// mantissas ("0x1p4") are rejected.
func ToFloat(s string) Value {
	s = strings.TrimSpace(s)
	if isHexFloat(s) {
		return Value{Type: ColumnFloat}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Value{Type: ColumnFloat}
	}
	return Value{Type: ColumnFloat, Float: f, Valid: true}
}

// stripDigitGroups removes single underscores between decimal digits.
// It reports false for misplaced underscores.
func stripDigitGroups(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}
	body := strings.TrimLeft(s, "+-")
	if len(s)-len(body) > 1 {
		return "", false
	}
	for _, group := range strings.Split(body, "_") {
		if group == "" || strings.Trim(group, "0123456789") != "" {
			return "", false
		}
	}
	return strings.ReplaceAll(s, "_", ""), true
}

func isHexFloat(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// ToText converts s to a text Value.
// Returns invalid if the string is empty or only whitespace.
func ToText(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{Type: ColumnText}
	}
	return Value{Type: ColumnText, Text: s, Valid: true}
}

// joinViolations renders violations as "field: reason; field: reason".
func joinViolations(errs []ValidationError) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Field + ": " + e.Message
	}
	return strings.Join(parts, "; ")
}
