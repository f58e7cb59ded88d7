package repositories

import "errors"

var (
	// ErrNotFound is returned when a record with the requested key does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a user with the same email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)
