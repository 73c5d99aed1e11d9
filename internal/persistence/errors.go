package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrWriteFailed is returned when the document could not be written to the backing store.
	ErrWriteFailed = errors.New("persistence: write failed")
	// ErrVersionConflict is returned when a concurrent writer replaced the document first.
	ErrVersionConflict = errors.New("persistence: version conflict")
)
