// Package domainerrors defines the coded error type shared by every service
// operation. Repositories speak in sentinels; services translate those into a
// coded error so callers (HTTP or in-process) can distinguish failure kinds
// without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a failure. The set is closed: adding a code is an API
// change for every transport sitting above the services.
type Code string

const (
	// CodeNotFound: a referenced id does not resolve to an existing entity.
	CodeNotFound Code = "not_found"
	// CodeValidation: a required field is missing or malformed at create time.
	CodeValidation Code = "validation_error"
	// CodeInvariantViolation: the operation would leave an aggregate in a
	// state its invariants forbid (e.g. a select property without options).
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInvalidFieldType: dispatch on an unrecognized property field type.
	CodeInvalidFieldType Code = "invalid_field_type"
	// CodeUnauthorized: the caller's identity is missing or invalid.
	CodeUnauthorized Code = "unauthorized"
	// CodeInternal: everything the other codes do not cover. Messages for
	// this code must not reach external callers verbatim.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. It wraps an optional cause so errors.Is and
// errors.As keep working through service boundaries.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with no cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// IsCoded reports whether err carries a domain error anywhere in its chain.
func IsCoded(err error) bool {
	var de *Error
	return errors.As(err, &de)
}

// CodeOf extracts the code from err, defaulting to CodeInternal for uncoded
// errors so transports never leak raw failures as success-shaped responses.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the message from err if it is coded, "" otherwise.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
