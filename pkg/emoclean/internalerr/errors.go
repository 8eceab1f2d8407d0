package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidStrategy  = errors.New("invalid strategy")
	ErrMissingColumn    = errors.New("missing required column")
	ErrStoreUnavailable = errors.New("store unavailable")
)
