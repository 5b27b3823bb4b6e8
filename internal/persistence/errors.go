package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrInvalidKey is returned when a document key cannot be stored safely.
	ErrInvalidKey = errors.New("persistence: invalid document key")
)
