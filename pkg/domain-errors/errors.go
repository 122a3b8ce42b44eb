// Package domainerrors defines the coded error type shared by services and
// transports. Services return *Error values; transports translate the Code
// into a status without inspecting messages.
package domainerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies an error for callers. Codes are stable API surface.
type Code string

const (
	CodeValidation         Code = "validation_failed"
	CodeIllegalTransition  Code = "illegal_transition"
	CodeConcurrency        Code = "concurrency_conflict"
	CodeNotFound           Code = "not_found"
	CodeForbidden          Code = "forbidden"
	CodeUnauthorized       Code = "unauthorized"
	CodeBadRequest         Code = "bad_request"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
)

// FieldError names a single offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the coded domain error.
type Error struct {
	Code    Code
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	for _, f := range e.Fields {
		fmt.Fprintf(&b, "; %s: %s", f.Field, f.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// Validation builds a validation_failed error listing every field problem.
func Validation(message string, fields ...FieldError) error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code Code) bool {
	var de *Error
	for err != nil {
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is is shorthand for HasCode, kept for call sites written against the
// original helper name.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the outermost code in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// FieldsOf returns field errors from the outermost validation error.
func FieldsOf(err error) []FieldError {
	var de *Error
	if errors.As(err, &de) {
		return de.Fields
	}
	return nil
}
