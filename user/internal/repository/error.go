package repository

import "errors"

var (
	// ErrNotFound is returned when a requested user is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a username or email is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrEntryNotFound is returned when a movie is not in the favorites set.
	ErrEntryNotFound = errors.New("favorite not found")
)
