// Package core provides the inference and validation pipeline.
//
// # Error Codes Reference
//
// This file maps technical errors to user-friendly messages with codes for
// support reference. Both the interactive CLI and the HTTP API print the code
// next to the message so a report of "FILE003" is enough to diagnose it.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File not found: The file does not exist
//	          Action: Check the path and try again
//	          Patterns: "no such file or directory", "file does not exist", "cannot find the file"
//
//	FILE002 - Permission denied: The file cannot be read
//	          Action: Check the file permissions
//	          Patterns: "permission denied", "access is denied"
//
//	FILE003 - Encoding error: File contains invalid characters
//	          Action: Save the file as UTF-8
//	          Patterns: "encoding error"
//
//	FILE004 - No file: No file path was given
//	          Action: Enter the path of the file to check
//	          Patterns: "no file provided"
//
//	FILE005 - Not a file: The path is a directory or device
//	          Action: Enter the path of a regular file
//	          Patterns: "not a regular file", "is a directory"
//
//	FILE006 - File too large: File exceeds the upload size limit
//	          Action: Split the file or run the CLI locally
//	          Patterns: "file too large", "request body too large"
//
//	FILE007 - Unsupported file type: The upload extension is not accepted
//	          Action: Upload a .csv, .tsv, .txt, or .dat file
//	          Patterns: "unsupported file type"
//
// # Schema Errors (SCH001-SCH099)
//
//	SCH001 - Invalid schema: The column layout could not be built
//	         Action: Check the delimiter, names, and types you entered
//	         Patterns: "invalid schema"
//
// # Report Errors (RPT001-RPT099)
//
//	RPT001 - Report not written: The report file could not be created
//	         Action: Check that the report directory exists and is writable
//	         Patterns: "report write"
//
// # Run Errors (UPL001-UPL099)
//
//	UPL001 - Bad upload: The request body is not a usable multipart form
//	         Action: Send the file as multipart/form-data in a field named "file"
//	         Patterns: "invalid upload form"
//
//	UPL002 - System busy: Too many validations in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent runs"
//
//	UPL004 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	UPL005 - Request timeout: Request timed out
//	         Action: Try a smaller file or run the CLI locally
//	         Patterns: "context deadline exceeded"
//
// # History Errors (HIS001-HIS099)
//
//	HIS001 - History unavailable: The run history store failed
//	         Action: The report was still written; check the history database
//	         Patterns: "history store"
//
//	HIS002 - Run not found: No run with this ID exists
//	         Action: Verify the run ID
//	         Patterns: "run not found"
//
//	HIS003 - Invalid run ID: The run ID is not a UUID
//	         Action: Copy the run ID from the validation response
//	         Patterns: "invalid run id"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or check the logs
//
// # Pattern Matching
//
// Patterns are matched case-insensitively using strings.Contains and the
// first match wins, so specific patterns come before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgNotFound = UserMessage{
		Message: "File not found",
		Action:  "Check the path and try again",
		Code:    "FILE001",
	}
	msgPermission = UserMessage{
		Message: "The file cannot be read",
		Action:  "Check the file permissions",
		Code:    "FILE002",
	}
	msgNotFile = UserMessage{
		Message: "The path is not a regular file",
		Action:  "Enter the path of a regular file",
		Code:    "FILE005",
	}
	msgTooLarge = UserMessage{
		Message: "File exceeds the upload size limit",
		Action:  "Split the file or run the CLI locally",
		Code:    "FILE006",
	}
)

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// History Errors (HIS001-HIS003)
	// These wrap file and database errors, so they come first.
	// =========================================================================
	{
		pattern: "run not found",
		msg: UserMessage{
			Message: "No run with this ID exists",
			Action:  "Verify the run ID",
			Code:    "HIS002",
		},
	},
	{
		pattern: "invalid run id",
		msg: UserMessage{
			Message: "The run ID is not valid",
			Action:  "Copy the run ID from the validation response",
			Code:    "HIS003",
		},
	},
	{
		pattern: "history store",
		msg: UserMessage{
			Message: "The run history store failed",
			Action:  "The report was still written; check the history database",
			Code:    "HIS001",
		},
	},

	// =========================================================================
	// Report Errors (RPT001)
	// Wraps file errors from the report directory, so it comes first.
	// =========================================================================
	{
		pattern: "report write",
		msg: UserMessage{
			Message: "The report file could not be created",
			Action:  "Check that the report directory exists and is writable",
			Code:    "RPT001",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE007)
	// =========================================================================
	{pattern: "no such file or directory", msg: msgNotFound},
	{pattern: "file does not exist", msg: msgNotFound},
	{pattern: "cannot find the file", msg: msgNotFound},
	{pattern: "permission denied", msg: msgPermission},
	{pattern: "access is denied", msg: msgPermission},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save the file as UTF-8",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was given",
			Action:  "Enter the path of the file to check",
			Code:    "FILE004",
		},
	},
	{pattern: "not a regular file", msg: msgNotFile},
	{pattern: "is a directory", msg: msgNotFile},
	{pattern: "file too large", msg: msgTooLarge},
	{pattern: "request body too large", msg: msgTooLarge},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "This file type is not accepted",
			Action:  "Upload a .csv, .tsv, .txt, or .dat file",
			Code:    "FILE007",
		},
	},

	// =========================================================================
	// Schema Errors
	// =========================================================================
	{
		pattern: "invalid schema",
		msg: UserMessage{
			Message: "The column layout could not be built",
			Action:  "Check the delimiter, names, and types you entered",
			Code:    "SCH001",
		},
	},

	// =========================================================================
	// Run Errors (UPL001-UPL005)
	// =========================================================================
	{
		pattern: "invalid upload form",
		msg: UserMessage{
			Message: "The upload could not be read",
			Action:  `Send the file as multipart/form-data in a field named "file"`,
			Code:    "UPL001",
		},
	},
	{
		pattern: "too many concurrent runs",
		msg: UserMessage{
			Message: "Too many validations in progress",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or run the CLI locally",
			Code:    "UPL005",
		},
	},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns an empty UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError returns "Message (Code: X). Action" for display.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific (non-default) message.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError wraps err, or returns nil for a nil error.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
