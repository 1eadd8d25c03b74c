package store

import "errors"

// Sentinel errors returned by store implementations.
// Services translate these into coded domain errors at the boundary.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists indicates a uniqueness violation (primary key or
	// the users' case-insensitive email index).
	ErrAlreadyExists = errors.New("record already exists")
)
