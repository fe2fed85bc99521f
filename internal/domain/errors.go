package domain

import "errors"

// Failure taxonomy shared by every lifecycle operation. Callers match with
// errors.Is; the API layer maps these onto HTTP status codes.
var (
	ErrNotFound               = errors.New("not found")
	ErrValidationFailed       = errors.New("validation failed")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrConcurrentConflict     = errors.New("concurrent conflict")

	// ErrCacheUnavailable is non-fatal: the cache layer logs it and falls
	// through to the engine.
	ErrCacheUnavailable = errors.New("cache unavailable")
)
