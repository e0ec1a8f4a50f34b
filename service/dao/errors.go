package dao

import "errors"

// Store errors. Callers match them with errors.Is.
var (
	// ErrNotFound reports a missing record.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID reports an empty key, or one a store cannot address.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity reports an attempt to save a nil record.
	ErrNilEntity = errors.New("dao: nil entity")
)
