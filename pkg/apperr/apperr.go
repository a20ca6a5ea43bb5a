// Package apperr defines the service error taxonomy and its mapping onto
// HTTP status codes. Handlers wrap causes with these classes so the response
// layer can render a uniform JSON error body without leaking internals.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Class identifies a category of failure.
type Class int

const (
	// Validation covers bad input shape, disallowed extensions and size bounds.
	Validation Class = iota
	// NotFound covers unknown or expired file ids.
	NotFound
	// Unauthorized covers missing, invalid, expired or wrong-class tokens.
	Unauthorized
	// Forbidden covers requests from blocked addresses.
	Forbidden
	// RateLimited covers fixed-window limit rejections.
	RateLimited
	// Storage covers durable read/write failures.
	Storage
	// Transform covers opaque failures from the document transform collaborator.
	Transform
)

// Error is a classified error with a user-facing message.
type Error struct {
	Class   Class
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}

	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Status returns the HTTP status code for the error class.
func (e *Error) Status() int {
	switch e.Class {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// New creates a classified error.
func New(class Class, msg string) *Error {
	return &Error{Class: class, Message: msg}
}

// Newf creates a classified error with a formatted message.
func Newf(class Class, format string, args ...any) *Error {
	return &Error{Class: class, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a classified error. The cause is kept for logs;
// only Message is rendered to clients.
func Wrap(class Class, msg string, cause error) *Error {
	return &Error{Class: class, Message: msg, cause: cause}
}

// As extracts an *Error from err, if present.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}

	return nil, false
}
