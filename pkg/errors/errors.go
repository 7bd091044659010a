// Package errors defines the coded errors roadnet reports to users.
//
// The graph builder never fails: bad speeds, unknown road classes and edges
// from unknown nodes all degrade to documented defaults. Errors only arise at
// the edges of the system, and each carries a [Code] so that the CLI and the
// HTTP API can react to the kind of failure without parsing messages:
//
//	net, err := io.ImportOSMnx(path)
//	if errors.Is(err, errors.ErrCodeFileNotFound) {
//	    // suggest checking the path
//	}
//
// Codes group by prefix: INVALID_* for rejected input, *_NOT_FOUND for
// missing resources, UNSUPPORTED for formats roadnet does not speak.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"   // malformed network document or request
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"  // unreadable built graph (JSON or gob)
	ErrCodeInvalidProfile Code = "INVALID_PROFILE" // bad speed profile or road class
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// httpStatus maps codes to API responses. Unlisted codes are 500.
var httpStatus = map[Code]int{
	ErrCodeInvalidInput:   http.StatusBadRequest,
	ErrCodeInvalidFormat:  http.StatusBadRequest,
	ErrCodeInvalidProfile: http.StatusBadRequest,
	ErrCodeInvalidPath:    http.StatusBadRequest,
	ErrCodeNotFound:       http.StatusNotFound,
	ErrCodeFileNotFound:   http.StatusNotFound,
	ErrCodeUnsupported:    http.StatusUnsupportedMediaType,
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// File wraps an error from opening or reading a file. A missing file is
// FILE_NOT_FOUND; anything else (a directory, no permission) is
// INVALID_PATH.
func File(cause error, format string, args ...any) *Error {
	code := ErrCodeInvalidPath
	if errors.Is(cause, fs.ErrNotExist) {
		code = ErrCodeFileNotFound
	}
	return Wrap(code, cause, format, args...)
}

// Is reports whether the outermost *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix. Errors that are
// not an *Error come back unchanged.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	if status, ok := httpStatus[GetCode(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}
