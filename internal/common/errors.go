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

// Common application errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrMalformedInput    = errors.New("malformed input")
	ErrCapabilityMissing = errors.New("capability missing")
	ErrOCRFailed         = errors.New("ocr failed")
	ErrCacheMiss         = errors.New("cache miss")
	ErrValidation        = errors.New("validation failed")
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

// Recovered converts a value returned by recover() into an error wrapping
// ErrMalformedInput.
func Recovered(what string, r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%s: %w: %w", what, ErrMalformedInput, err)
	}
	return fmt.Errorf("%s: %w: %v", what, ErrMalformedInput, r)
}
