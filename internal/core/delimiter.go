package core

// delimiter.go scores candidate separators against a leading sample.
//
// The score for a candidate is the frequency of its modal field count times
// that count. Only a strictly higher score replaces the current best, so the
// earlier candidate wins ties. The formula is kept exactly as is so detection
// stays reproducible across versions.

import "log/slog"

// Candidates lists the separators tried by DetectDelimiter, in order.
var Candidates = []string{",", ";", "\t", "|", ":"}

const (
	// DefaultDelimiter is used when the structure cannot be determined.
	DefaultDelimiter = ","

	// DefaultFieldCount is used when the structure cannot be determined.
	DefaultFieldCount = 3
)

// DetectDelimiter returns the best-scoring delimiter and its modal field count.
//
// Unreadable or empty files yield (DefaultDelimiter, 0). A zero field count
// means the structure could not be determined; callers substitute
// DefaultFieldCount.
func DetectDelimiter(path string, sampleSize int) (string, int) {
	lines, err := readSample(path, sampleSize)
	if err != nil {
		slog.Debug("delimiter detection: sample unreadable", "path", path, "error", err)
		return DefaultDelimiter, 0
	}
	return scoreDelimiters(lines)
}

// scoreDelimiters applies the frequency × field count scoring to lines.
func scoreDelimiters(lines []string) (string, int) {
	best, bestScore, bestCount := DefaultDelimiter, 0, 0

	for _, delim := range Candidates {
		counts := make([]int, 0, len(lines))
		for _, line := range lines {
			if n := len(splitNonEmpty(line, delim)); n > 0 {
				counts = append(counts, n)
			}
		}
		if len(counts) == 0 {
			continue
		}

		mode, freq := modalCount(counts)
		if score := freq * mode; score > bestScore {
			best, bestScore, bestCount = delim, score, mode
		}
	}

	return best, bestCount
}

// modalCount returns the most frequent value in counts and its frequency.
// On a tie the value seen first wins.
func modalCount(counts []int) (value, freq int) {
	seen := make(map[int]int, len(counts))
	order := make([]int, 0, len(counts))
	for _, c := range counts {
		if seen[c] == 0 {
			order = append(order, c)
		}
		seen[c]++
	}
	for _, c := range order {
		if seen[c] > freq {
			value, freq = c, seen[c]
		}
	}
	return value, freq
}
