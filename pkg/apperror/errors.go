// Package apperror defines the errors services return to HTTP handlers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a domain failure carrying the HTTP status it maps to.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

// New creates an Error.
func New(statusCode int, message string) *Error {
	return &Error{StatusCode: statusCode, Message: message}
}

// NotFound reports an absent entity.
func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, fmt.Sprintf(format, args...))
}

// Forbidden reports a failed authorization check.
func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, fmt.Sprintf(format, args...))
}

// BadRequest reports malformed input.
func BadRequest(format string, args ...any) *Error {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// Conflict reports a request that clashes with the current state of an entity.
func Conflict(format string, args ...any) *Error {
	return New(http.StatusConflict, fmt.Sprintf(format, args...))
}

// StatusOf returns the status carried by err, or 500.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether err maps to 404.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}
