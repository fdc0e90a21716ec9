package core

import "errors"

var (
	// ErrEncoding is returned when the input file is not valid UTF-8.
	ErrEncoding = errors.New("encoding error")

	// ErrEmptyPath is returned when no file path was supplied.
	ErrEmptyPath = errors.New("no file provided")

	// ErrInvalidSchema is returned when a schema cannot be constructed.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrNotRegularFile is returned when the path names a directory or device.
	ErrNotRegularFile = errors.New("not a regular file")
)
