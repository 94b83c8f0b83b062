package tutor

import "errors"

var (
	// ErrInvalidInput is returned before any upstream call when the turn
	// is incomplete.
	ErrInvalidInput = errors.New("invalid tutoring input")

	// ErrUpstreamUnavailable wraps failures of the language model provider.
	ErrUpstreamUnavailable = errors.New("tutor upstream unavailable")

	// ErrQuotaExhausted is returned once a conversation used all its turns.
	ErrQuotaExhausted = errors.New("message quota exhausted")
)
