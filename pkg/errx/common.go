package errx

import (
	"context"
	"errors"
	"net"
)

func Internal(message string) *Error {
	return New(message, TypeInternal)
}

func Validation(message string) *Error {
	return New(message, TypeValidation)
}

func NotFound(message string) *Error {
	return New(message, TypeNotFound)
}

func Unauthorized(message string) *Error {
	return New(message, TypeAuthorization)
}

func Conflict(message string) *Error {
	return New(message, TypeConflict)
}

func Business(message string) *Error {
	return New(message, TypeBusiness)
}

func External(message string) *Error {
	return New(message, TypeExternal)
}

func Unavailable(message string) *Error {
	return New(message, TypeUnavailable)
}

// Storage wraps a failure returned by a database or cache client.
// Timeouts and network errors become TypeUnavailable, anything else is
// TypeInternal.
func Storage(err error, message string) *Error {
	if err == nil {
		return nil
	}
	if IsTransient(err) {
		return Wrap(err, message, TypeUnavailable)
	}
	return Wrap(err, message, TypeInternal)
}

// IsTransient reports whether err looks like a timeout or a dropped
// connection rather than a logical failure.
func IsTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
