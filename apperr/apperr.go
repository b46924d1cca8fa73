// apperr - error taxonomy shared by services and handlers
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInvariant    = "INVARIANT_VIOLATION"
	CodeInternal     = "INTERNAL_ERROR"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validation rejects malformed input before any state mutation.
func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Status: http.StatusBadRequest}
}

func Validationf(format string, args ...interface{}) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

func NotFound(resource string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found", resource), Status: http.StatusNotFound}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message, Status: http.StatusUnauthorized}
}

func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message, Status: http.StatusForbidden}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message, Status: http.StatusConflict}
}

// Invariant marks a data-integrity bug (e.g. two active ranked attempts for
// one user+exercise pair). The operation must fail, not guess a fix.
func Invariant(message string) *Error {
	return &Error{Code: CodeInvariant, Message: message, Status: http.StatusInternalServerError}
}

func Invariantf(format string, args ...interface{}) *Error {
	return Invariant(fmt.Sprintf(format, args...))
}

func Internal(message string) *Error {
	return &Error{Code: CodeInternal, Message: message, Status: http.StatusInternalServerError}
}

// StatusOf maps any error to an HTTP status code.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns a caller-safe message for any error. Internal details stay
// in the logs.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		if appErr.Status >= 500 {
			return "Internal server error"
		}
		return appErr.Message
	}
	return "Internal server error"
}

// IsCode reports whether err is an application error with the given code.
func IsCode(err error, code string) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}
