package errors

import "errors"

// Shared application errors. Services wrap these with %w and extra context;
// handlers map them to HTTP statuses.
var (
	// ErrNotFound is returned when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is returned for failed authentication (bad credentials, bad token).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller lacks rights for the action.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned for state conflicts, e.g. a duplicate username
	// or email during registration.
	ErrConflict = errors.New("resource state conflict")
)
