// Package errors provides structured errors for the fusion core.
// Codes identify failure classes so callers can branch with errors.Is
// without string matching.
package errors

import (
	"fmt"
)

// FusionError is the structured error type for clipsift.
type FusionError struct {
	// Code is the unique error code (e.g., "ERR_101_INVALID_INPUT").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Input, Config, Collaborator, Internal).
	Category Category

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *FusionError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *FusionError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with FusionError.
func (e *FusionError) Is(target error) bool {
	if t, ok := target.(*FusionError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *FusionError) WithDetail(key, value string) *FusionError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new FusionError with the given code and message.
func New(code string, message string, cause error) *FusionError {
	return &FusionError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// Newf creates a new FusionError with a formatted message.
func Newf(code string, format string, args ...any) *FusionError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap creates a FusionError from an existing error.
// Returns nil if err is nil.
func Wrap(code string, err error) *FusionError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// InvalidInput creates an input-validation error.
func InvalidInput(message string, cause error) *FusionError {
	return New(ErrCodeInvalidInput, message, cause)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *FusionError {
	return New(ErrCodeInvalidConfig, message, cause)
}

// DirectoryError creates a person-directory collaborator error.
func DirectoryError(message string, cause error) *FusionError {
	return New(ErrCodeDirectoryUnavailable, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *FusionError {
	return New(ErrCodeInternal, message, cause)
}

// CodeOf returns the code of err if it is a FusionError, or "" otherwise.
func CodeOf(err error) string {
	if fe, ok := err.(*FusionError); ok {
		return fe.Code
	}
	return ""
}
