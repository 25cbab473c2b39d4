// Package apperr defines the error taxonomy shared by the engine, the storage
// adapters and both transports.
//
// Callers classify errors with errors.Is / errors.As; transports map each class
// to exactly one status code.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when no valid credential is attached.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden is the class of every authorization denial.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound covers both absent resources and resources hidden from the caller.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a uniqueness rule rejects a write.
	ErrConflict = errors.New("conflict")
	// ErrRateLimited is returned by transports when a caller exceeds its budget.
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a *ValidationError from a format string.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ForbiddenError carries the reason of an authorization denial.
type ForbiddenError struct{ Reason string }

func (e *ForbiddenError) Error() string { return "forbidden: " + e.Reason }

// Is lets errors.Is(err, ErrForbidden) match any ForbiddenError.
func (e *ForbiddenError) Is(target error) bool { return target == ErrForbidden }

// Forbidden builds a *ForbiddenError.
func Forbidden(reason string) error { return &ForbiddenError{Reason: reason} }

// NotFound wraps ErrNotFound with the kind of resource that was looked up.
func NotFound(kind string) error { return fmt.Errorf("%s %w", kind, ErrNotFound) }

// Conflict wraps ErrConflict with a message.
func Conflict(msg string) error { return fmt.Errorf("%s: %w", msg, ErrConflict) }

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
