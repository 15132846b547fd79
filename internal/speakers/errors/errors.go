package errors

import "errors"

var (
	// ErrNotFound is returned when a speaker is not found by ID
	ErrNotFound = errors.New("speaker not found")

	// ErrInvalidID is returned when an ID format is invalid
	ErrInvalidID = errors.New("invalid speaker ID format")

	// ErrStaleAvailability is returned when a guarded availability
	// write matched nothing because a concurrent booking won the race
	ErrStaleAvailability = errors.New("speaker availability changed concurrently")
)
