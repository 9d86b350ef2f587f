// Package errors provides structured error types for dnaconvert.
//
// Every failure that crosses a package boundary carries a machine-readable
// Code so the CLI and the HTTP front end can decide how to report it without
// string matching.
//
// # Error Codes
//
//   - FORMAT_ERROR: the input is not well-formed for its declared format
//     (bad magic header, missing section, EOF inside a token or sequence).
//   - FIELD_ERROR: a record lacks a field combination the target format needs.
//   - UNSUPPORTED: the requested operation does not exist for the format,
//     e.g. writing a Genbank flat-file.
//   - INVALID_*: bad user input such as unknown format names or options.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeFormat, "nexus: EOF inside a comment")
//	if errors.IsFormatError(err) {
//	    // abort the conversion, output is invalid
//	}
//
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Conversion errors
	ErrCodeFormat      Code = "FORMAT_ERROR"
	ErrCodeField       Code = "FIELD_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeIO           Code = "IO_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Formatf is shorthand for New(ErrCodeFormat, ...).
func Formatf(format string, args ...any) *Error {
	return New(ErrCodeFormat, format, args...)
}

// Fieldf is shorthand for New(ErrCodeField, ...).
func Fieldf(format string, args ...any) *Error {
	return New(ErrCodeField, format, args...)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code,
// so an outer wrapper with a different code does not hide an inner match.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// IsFormatError reports whether err aborts a conversion because of malformed
// input or an unsupported operation on the format.
func IsFormatError(err error) bool {
	return Is(err, ErrCodeFormat) || Is(err, ErrCodeUnsupported)
}

// IsFieldError reports whether err is a FIELD_ERROR.
func IsFieldError(err error) bool {
	return Is(err, ErrCodeField)
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
