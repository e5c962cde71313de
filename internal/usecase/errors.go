package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrUpstreamUnavailable marks a live feed call that failed or timed out.
	ErrUpstreamUnavailable = errors.New("upstream feed unavailable")
)
