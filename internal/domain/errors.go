package domain

import "errors"

var (
	// ErrNotFound is returned when a record does not exist or is not visible to the caller.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when another user already owns the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken is returned when another user already owns the username.
	ErrUsernameTaken = errors.New("username already taken")
)
