package core

import "log/slog"

// InferTypes classifies each column of the leading sample as integer, float,
// or text. The column set is taken from the first sampled line; shorter rows
// contribute nothing to the columns they lack. A blank cell anywhere in a
// column makes it text.
//
// Returns a single text column when the sample cannot be read or is empty.
func InferTypes(path, delimiter string, sampleSize int) []ColumnType {
	lines, err := readSample(path, sampleSize)
	if err != nil {
		slog.Debug("type inference: sample unreadable", "path", path, "error", err)
		return []ColumnType{ColumnText}
	}
	if len(lines) == 0 {
		return []ColumnType{ColumnText}
	}

	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = splitTrimmed(line, delimiter)
	}
	return inferColumnTypes(rows)
}

// inferColumnTypes infers a type per column of rows[0].
func inferColumnTypes(rows [][]string) []ColumnType {
	out := make([]ColumnType, len(rows[0]))

	for col := range out {
		seen := false
		allInt, allFloat := true, true

		for _, r := range rows {
			if col >= len(r) {
				continue
			}
			seen = true
			v := r[col]
			if v == "" {
				allInt, allFloat = false, false
				break
			}
			if allInt && !isInteger(v) {
				allInt = false
			}
			if allFloat && !isFloat(v) {
				allFloat = false
			}
		}

		switch {
		case !seen:
			out[col] = ColumnText
		case allInt:
			out[col] = ColumnInteger
		case allFloat:
			out[col] = ColumnFloat
		default:
			out[col] = ColumnText
		}
	}

	return out
}

// isInteger reports whether s is accepted by ToInteger.
func isInteger(s string) bool { return ToInteger(s).Valid }

// isFloat reports whether s is accepted by ToFloat.
func isFloat(s string) bool { return ToFloat(s).Valid }
