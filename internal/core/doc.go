// Package core infers the structure of delimited text files and validates
// them record by record.
//
// The package has no knowledge of prompts, HTTP, or databases. The CLI, the
// HTTP API, and tests all drive it through the same functions.
//
// # Pipeline
//
// A run moves through five steps:
//
//   - [DetectDelimiter] scores each of [Candidates] over a short sample and
//     returns the winner with its modal field count.
//   - [InferTypes] proposes int, float, or string for each column.
//   - [SuggestNames] accepts the first line as column names when it looks
//     like a header, else falls back to column_1, column_2, ...
//   - [ProcessFile] splits every non-blank line, checks the field count, and
//     runs [ValidateField] on each field.
//   - [WriteReport] writes the summary under a name that never overwrites an
//     existing report.
//
// [Suggest], [Run], and [Execute] wrap these steps for callers that do not
// prompt between them.
//
// # Overrides
//
// Users may replace the suggested delimiter, names, or types. A name or type
// list of the wrong length is rejected with a [Notice] and the suggestion is
// kept:
//
//	plan, err := core.Suggest(path, core.DefaultSampling, core.Overrides{
//	    Types: "int, string, decimal",
//	})
//
// # Encoding
//
// Input must be UTF-8. A leading byte order mark is stripped. Invalid bytes
// abort the run with [ErrEncoding].
//
// # Concurrency
//
// Functions in this package hold no shared state and may be called from
// several goroutines on different files. [RunLimiter] bounds how many runs a
// server executes at once.
package core
