package sessions

import "errors"

var (
	// ErrNotFound indicates the session does not exist or has expired.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates validation or bad input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates the session belongs to another visitor.
	ErrForbidden = errors.New("forbidden")
)
