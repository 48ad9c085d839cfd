package repository

import "errors"

// Sentinel kinds for store errors.
var (
	// ErrNotFound signals a lookup for a row that does not exist; callers
	// wrap it with the entity and id.
	ErrNotFound = errors.New("not found")
)
