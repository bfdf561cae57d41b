package service

import "errors"

// Verification flow specific errors used by handlers for stable error_type mapping.
var (
	// ErrAlreadyActive is returned when a confirm targets an account that has
	// already activated. A second confirm is an error, not a no-op, so client
	// bugs surface instead of being silently absorbed.
	ErrAlreadyActive = errors.New("account_already_active")

	// ErrInvalidOrExpiredCode covers a wrong code, an expired code, and a
	// code consumed by a concurrent request; callers cannot distinguish
	// these cases and should not try to.
	ErrInvalidOrExpiredCode = errors.New("invalid_or_expired_code")
)
