package store

import "errors"

// Sentinel errors surfaced to handlers. Malformed ObjectID hex is collapsed
// into ErrNotFound so the API never distinguishes a bad id from a missing
// document.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already in use")
)
