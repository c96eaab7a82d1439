// Package errors provides the structured error type used across dolink.
// Every error carries a stable Code that tests and callers match on, plus
// free-form Details (the path involved, the expected link kind, ...).
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Convergence errors. InvalidLinkState is a failed delete precondition,
	// ExecutionFailed an OS primitive failing while applying a plan, and
	// InspectionFailed an OS primitive failing while reading state.
	ErrInvalidLinkState ErrorCode = "INVALID_LINK_STATE"
	ErrExecutionFailed  ErrorCode = "EXECUTION_FAILED"
	ErrInspectionFailed ErrorCode = "INSPECTION_FAILED"
)

// Error is a structured error with a code and details
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// New creates an Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates an Error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err. A nil err yields nil; callers only wrap real failures.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps err with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	e, ok := as(err)
	return ok && e.Code == code
}

// GetErrorCode returns the error code from an error, or ErrUnknown
func GetErrorCode(err error) ErrorCode {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil
func GetErrorDetails(err error) map[string]interface{} {
	if e, ok := as(err); ok {
		return e.Details
	}
	return nil
}
