package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced on the wire.
const (
	CodeInvalidTransition = "InvalidTransition"
	CodeUnauthorized      = "Unauthorized"
	CodeTerminalState     = "TerminalState"
	CodeInsufficientStock = "InsufficientStock"
	CodeValidation        = "ValidationError"
	CodeNotFound          = "NotFound"
	CodeInternal          = "InternalError"
)

// AppError is a typed failure carrying a wire code, a human-readable
// message and the HTTP status it maps to.
type AppError struct {
	Code    string
	Message string
	Status  int
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.cause }

func (e *AppError) WithCause(err error) *AppError {
	return &AppError{Code: e.Code, Message: e.Message, Status: e.Status, cause: err}
}

func InvalidTransition(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeInvalidTransition, Message: fmt.Sprintf(format, args...), Status: http.StatusBadRequest}
}

func Unauthorized(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: fmt.Sprintf(format, args...), Status: http.StatusForbidden}
}

func Unauthenticated(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: fmt.Sprintf(format, args...), Status: http.StatusUnauthorized}
}

func TerminalState(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeTerminalState, Message: fmt.Sprintf(format, args...), Status: http.StatusBadRequest}
}

func InsufficientStock(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeInsufficientStock, Message: fmt.Sprintf(format, args...), Status: http.StatusConflict}
}

func Validation(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeValidation, Message: fmt.Sprintf(format, args...), Status: http.StatusBadRequest}
}

func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...), Status: http.StatusNotFound}
}

func Internal(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "internal server error", Status: http.StatusInternalServerError, cause: err}
}

// As extracts an AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given wire code.
func IsCode(err error, code string) bool {
	if appErr, ok := As(err); ok {
		return appErr.Code == code
	}
	return false
}
