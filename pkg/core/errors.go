package core

import "errors"

// Common errors.
var (
	// ErrValidationRejected is returned when a note would be saved with both
	// title and content empty, or with an unknown color.
	ErrValidationRejected = errors.New("note rejected: validation failed")

	// ErrNotFound is returned when an operation references an unknown note ID.
	ErrNotFound = errors.New("note not found")

	// ErrPersistenceDegraded wraps store write failures. The in-memory
	// mutation that triggered the write has already been applied.
	ErrPersistenceDegraded = errors.New("persistence degraded")

	ErrReadOnly = errors.New("store is in read-only mode")
)
