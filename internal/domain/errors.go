package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checking. The HTTP layer maps these to
// status codes; the service and repository layers produce them.
var (
	// ErrValidation marks a malformed or out-of-range entity field.
	ErrValidation = errors.New("validation error")

	// ErrNotFound means the id was well-formed but no record exists.
	ErrNotFound = errors.New("todo not found")

	// ErrInvalidID means the id is not a well-formed object id.
	ErrInvalidID = errors.New("invalid todo id")

	// List-parameter errors, all detected before any store call.
	ErrInvalidFilter     = errors.New("invalid filter value")
	ErrInvalidSortField  = errors.New("invalid sort field")
	ErrInvalidSortOrder  = errors.New("invalid sort order")
	ErrInvalidPagination = errors.New("invalid pagination")

	// ErrStore wraps store connectivity, timeout and write failures. It is
	// never retried here; callers map it to a generic server failure.
	ErrStore = errors.New("store failure")
)

// ValidationError reports the offending field of a rejected payload.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
