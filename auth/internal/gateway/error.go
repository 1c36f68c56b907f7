package gateway

import "errors"

var (
	// ErrUserExists is returned when the registered username or email is taken.
	ErrUserExists = errors.New("username or email already exists")
	// ErrInvalidCredentials is returned when a login does not match a user.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
