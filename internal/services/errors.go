package services

import "errors"

var (
	// ErrUnauthenticated is returned for any token that fails verification.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials is returned when the email is unknown or the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMalformedHash is returned when a stored password hash cannot be decoded.
	ErrMalformedHash = errors.New("malformed password hash")
)

// ValidationError reports a client error detected by a service, such as a bad upload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(msg string) error {
	return &ValidationError{Message: msg}
}
