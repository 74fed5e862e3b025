package store

import "errors"

var (
	// ErrConflict is returned when a write would violate a uniqueness
	// constraint (duplicate username/email, duplicate follow edge).
	ErrConflict = errors.New("conflict with existing record")

	// ErrNotFound is returned when the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredentials is returned for both an unknown username and
	// a wrong password, so callers cannot tell the two cases apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalid is returned for input that fails validation.
	ErrInvalid = errors.New("invalid input")

	// ErrForbidden is returned when the caller does not own the record
	// it is trying to modify.
	ErrForbidden = errors.New("operation not permitted")
)
