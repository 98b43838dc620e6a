package apperr

import (
	"errors"
	"net/http"
)

// Error is a domain error that carries the HTTP status it maps to.
// Services return these; handlers translate them with Status().
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation reports a bad enum value or a missing required field.
func Validation(msg string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: msg}
}

// NotFound reports a missing resource id.
func NotFound(msg string) *Error {
	return &Error{Code: http.StatusNotFound, Message: msg}
}

// Forbidden reports an authorization failure (not the owner, not an admin).
func Forbidden(msg string) *Error {
	return &Error{Code: http.StatusForbidden, Message: msg}
}

// Conflict reports a state conflict: responding to a non-active request,
// a duplicate donor response, or a blood type mismatch.
func Conflict(msg string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: msg}
}

// Status maps an error to its HTTP status code. Anything that is not a
// domain error is an internal error.
func Status(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// Message returns the client-facing message for an error. Unexpected errors
// are masked so storage details never leak to the caller.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal server error"
}
