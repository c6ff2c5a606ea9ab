// Package apperror defines the application's error taxonomy.
//
// Services return these errors; the HTTP layer maps them to flash messages
// and redirects (or to the generic error pages) with errors.Is/errors.As.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrMissingObject   = errors.New("missing object")
	ErrStorage         = errors.New("storage failure")
)

// AppError pairs a sentinel with a human-readable message safe to show to
// the end user. Field optionally names the input that caused the error.
type AppError struct {
	Err     error
	Message string
	Field   string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation on the named field, e.g.
// Conflict("username", "Username already exists").
func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Field:   field,
	}
}

// Forbidden indicates the caller is authenticated but does not own the
// resource. HTTP handlers map this to a permission-denied flash.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthenticated indicates no valid session. HTTP handlers map this to a
// redirect to the login page.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}

// MissingObject indicates a registry row whose on-disk object is absent —
// the registry and the storage root disagree.
func MissingObject(storedName string) *AppError {
	return &AppError{
		Err:     ErrMissingObject,
		Message: fmt.Sprintf("stored object %s is missing", storedName),
	}
}

// Storage wraps a filesystem failure during save or read.
func Storage(message string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %w", ErrStorage, cause),
		Message: message,
	}
}
