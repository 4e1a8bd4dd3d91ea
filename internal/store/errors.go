package store

import "errors"

// Sentinel errors surfaced to callers. Validation errors and not-found errors
// are distinct so the HTTP layer can message them differently.
var (
	ErrNotFound     = errors.New("not found")
	ErrNameRequired = errors.New("name required")
)
