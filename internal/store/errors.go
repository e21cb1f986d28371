package store

import "errors"

// Sentinel errors classifying storage failures. The HTTP boundary maps
// ErrValidation to 400, ErrNotFound to 404, and ErrConflict to 409; any
// other storage error is an infrastructure failure surfaced as a generic
// 500 without echoing driver detail to the caller. Nothing here retries.
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
)
