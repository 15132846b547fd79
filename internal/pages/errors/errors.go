package errors

import "errors"

var (
	// ErrNotFound is returned when a page is not found by ID
	ErrNotFound = errors.New("page not found")

	// ErrInvalidID is returned when an ID format is invalid
	ErrInvalidID = errors.New("invalid page ID format")

	// ErrDuplicateName is returned when the unique name index rejects a write
	ErrDuplicateName = errors.New("page name already exists")
)
