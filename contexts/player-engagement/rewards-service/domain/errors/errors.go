package errors

import "errors"

var (
	ErrProfileNotFound          = errors.New("player profile not found")
	ErrProfileExists            = errors.New("player profile already exists")
	ErrAlreadyClaimed           = errors.New("daily reward already claimed for today")
	ErrActivityAlreadyRecorded  = errors.New("activity already recorded for today")
	ErrInvalidActivityDate      = errors.New("activity date precedes last recorded activity")
	ErrInvalidActivityKind      = errors.New("unknown activity kind")
	ErrInvalidRequest           = errors.New("invalid request")
	ErrInvalidRewardConfig      = errors.New("invalid reward calendar configuration")
	ErrVersionConflict          = errors.New("profile version conflict")
	ErrConcurrentUpdate         = errors.New("profile update retries exhausted")
	ErrIdempotencyKeyConflict   = errors.New("idempotency key reused with different request")
	ErrCollectibleNotFound      = errors.New("collectible not found")
	ErrRepositoryInvariantBroke = errors.New("repository invariant violated")
)
