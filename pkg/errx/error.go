package errx

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error is the structured error carried across package boundaries.
type Error struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Type       Type                   `json:"type"`
	HTTPStatus int                    `json:"http_status"`
	Details    map[string]interface{} `json:"details,omitempty"`

	// Err is the internal cause. It is logged, never serialized.
	Err error `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *Error) WithDetails(details map[string]interface{}) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// MarshalJSON renders only the public fields. The cause chain stays
// server side.
func (e *Error) MarshalJSON() ([]byte, error) {
	type public struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Type    Type                   `json:"type"`
		Details map[string]interface{} `json:"details,omitempty"`
	}
	return json.Marshal(public{
		Code:    e.Code,
		Message: e.Message,
		Type:    e.Type,
		Details: e.Details,
	})
}

func New(message string, errType Type) *Error {
	return &Error{
		Code:       string(errType),
		Message:    message,
		Type:       errType,
		HTTPStatus: errType.httpStatus(),
		Details:    make(map[string]interface{}),
	}
}

// Wrap wraps err with a message. If err already carries an *Error, its
// code and details are preserved.
func Wrap(err error, message string, errType Type) *Error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return &Error{
			Code:       existing.Code,
			Message:    message,
			Type:       errType,
			HTTPStatus: existing.HTTPStatus,
			Details:    existing.Details,
			Err:        err,
		}
	}

	e := New(message, errType)
	e.Err = err
	return e
}

func Wrapf(err error, errType Type, format string, args ...interface{}) *Error {
	return Wrap(err, fmt.Sprintf(format, args...), errType)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// HasCode reports whether the outermost *Error in err's chain was built
// from code.
func HasCode(err error, code *ErrorCode) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code.Code
}

// TypeOf returns the Type of the outermost *Error in err's chain, or
// TypeInternal for plain errors.
func TypeOf(err error) Type {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return TypeInternal
}

// IsType reports whether err carries an *Error of type t.
func IsType(err error, t Type) bool {
	return err != nil && TypeOf(err) == t
}
