package core

import (
	"log/slog"
	"strconv"
	"unicode/utf8"
)

// MaxHeaderLength is the longest fragment still considered a column label.
const MaxHeaderLength = 30

// SuggestNames proposes fieldCount column names.
//
// The first line is used verbatim when every non-empty fragment is at most
// MaxHeaderLength characters, none of them parses as a number, and there are
// exactly fieldCount of them. Otherwise positional names are synthesized.
func SuggestNames(fieldCount int, delimiter, path string) []string {
	first, err := readFirstLine(path)
	if err != nil {
		slog.Debug("header suggestion: first line unreadable", "path", path, "error", err)
		return PositionalNames(fieldCount)
	}

	if first != "" {
		parts := splitNonEmpty(first, delimiter)
		if len(parts) == fieldCount && looksLikeHeader(parts) {
			return parts
		}
	}
	return PositionalNames(fieldCount)
}

// looksLikeHeader reports whether parts read like labels rather than data.
func looksLikeHeader(parts []string) bool {
	for _, p := range parts {
		if utf8.RuneCountInString(p) > MaxHeaderLength {
			return false
		}
		if _, err := strconv.ParseFloat(p, 64); err == nil {
			return false
		}
	}
	return true
}

// PositionalNames returns column_1 … column_n.
func PositionalNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "column_" + strconv.Itoa(i+1)
	}
	return names
}
