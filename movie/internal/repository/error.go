package repository

import "errors"

var (
	// ErrNotFound is returned when a requested movie is not found.
	ErrNotFound = errors.New("not found")
	// ErrEntryNotFound is returned when a rating or comment matching the
	// request does not exist in the movie's ledger.
	ErrEntryNotFound = errors.New("ledger entry not found")
	// ErrAlreadyExists is returned when a user already rated the movie.
	ErrAlreadyExists = errors.New("ledger entry already exists")
)
