package prediction

import (
	"errors"
	"fmt"
)

// ErrMissingRouteID is returned when a request carries no route identifier.
var ErrMissingRouteID = errors.New("route_id is required")

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

// InternalComputationError wraps an unexpected failure while scoring.
type InternalComputationError struct {
	Cause error
}

func (e *InternalComputationError) Error() string {
	return fmt.Sprintf("prediction failed: %v", e.Cause)
}

func (e *InternalComputationError) Unwrap() error { return e.Cause }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
