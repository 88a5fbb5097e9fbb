// Package apperr classifies request failures so the HTTP layer can map
// them to a status code without inspecting message text.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error
type Kind int

const (
	// KindInternal is an unclassified failure. Never shown to clients.
	KindInternal Kind = iota
	// KindValidation is malformed input or a disallowed field value.
	KindValidation
	// KindUnauthenticated means no usable credential was presented.
	KindUnauthenticated
	// KindForbidden means the actor is known but a role or ownership rule denies the action.
	KindForbidden
	// KindNotFound means a referenced entity does not exist.
	KindNotFound
	// KindConflict means a unique constraint would be violated.
	KindConflict
)

// Error is a classified error wrapping the human-readable cause
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Validation creates a validation error (400)
func Validation(format string, args ...any) *Error {
	return newf(KindValidation, format, args...)
}

// Unauthenticated creates an authentication error (401)
func Unauthenticated(format string, args ...any) *Error {
	return newf(KindUnauthenticated, format, args...)
}

// Forbidden creates an authorization error (403)
func Forbidden(format string, args ...any) *Error {
	return newf(KindForbidden, format, args...)
}

// NotFound creates a not-found error (404)
func NotFound(format string, args ...any) *Error {
	return newf(KindNotFound, format, args...)
}

// Conflict creates a conflict error (409)
func Conflict(format string, args ...any) *Error {
	return newf(KindConflict, format, args...)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps err to its response status code
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
