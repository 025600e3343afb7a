package store

import "errors"

// Errors returned by store operations, wrapped with detail. Callers match
// them with errors.Is.
var (
	// ErrNotFound means the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness rule would be broken.
	ErrConflict = errors.New("already exists")
	// ErrInvalid means the request breaks a business rule, e.g. it references
	// a missing row or the game is out of stock.
	ErrInvalid = errors.New("invalid request")
)
