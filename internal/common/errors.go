package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Sentinel errors for the extraction pipeline. Every failure surfaced to the
// operator wraps exactly one of these, so callers can branch with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")      // bad image count/type, rejected before any network call
	ErrCredential   = errors.New("credential error")   // no usable project identity in the key file
	ErrTransport    = errors.New("transport error")    // backend unreachable or timed out
	ErrService      = errors.New("service error")      // backend reachable but returned failure
	ErrMalformed    = errors.New("malformed reply")    // sanitized reply is not a JSON object
	ErrUnknownField = errors.New("unknown field")      // edit on a field outside the canonical set
	ErrNotFound     = errors.New("resource not found") // archive lookup miss
	ErrNoRecord     = errors.New("no record held")     // store queried before first successful extraction
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
