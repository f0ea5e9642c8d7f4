package errors

import "errors"

var (
	ErrInvalidRequest         = errors.New("invalid request")
	ErrAccountNotFound        = errors.New("account not found")
	ErrAccountExists          = errors.New("account already exists")
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyConflict    = errors.New("idempotency key conflict")
	ErrRepositoryInvariant    = errors.New("repository invariant broken")
)
