// Package errors provides structured error types shared by the CLI, the HTTP
// API and the project stores.
//
// The editing engine itself reports interactive rejections as zero results
// and uses plain sentinel errors for programmer errors. This package sits at
// the boundaries, where an error needs a machine-readable code and a message
// fit for a user.
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: input validation failures
//   - *NOT_FOUND: missing resources
//   - STORAGE: persistence backend failures
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid color: %s", c)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	err := errors.Wrap(errors.ErrCodeStorage, cause, "save project %s", id)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeUnknownScreen   Code = "UNKNOWN_SCREEN"
	ErrCodeProjectNotFound Code = "PROJECT_NOT_FOUND"

	// Conflicts with the current editing state
	ErrCodeLocked Code = "LOCKED"

	// Persistence errors
	ErrCodeStorage Code = "STORAGE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error wrapping cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err has the given error code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from err, or "" if it carries none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for an *Error,
// and err.Error() otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidDocument, ErrCodeInvalidFormat, ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeUnknownScreen, ErrCodeProjectNotFound:
		return http.StatusNotFound
	case ErrCodeLocked:
		return http.StatusConflict
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	case ErrCodeStorage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
