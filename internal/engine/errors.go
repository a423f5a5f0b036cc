package engine

import (
	"errors"
	"fmt"
)

// ErrorCode classifies engine failures so callers can map them to
// transport-level responses without string matching.
type ErrorCode string

const (
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeInvalidState        ErrorCode = "INVALID_STATE"
	CodePermissionDenied    ErrorCode = "PERMISSION_DENIED"
	CodeCapacityExceeded    ErrorCode = "CAPACITY_EXCEEDED"
	CodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"
	CodeDuplicateOperation  ErrorCode = "DUPLICATE_OPERATION"
	CodeConcurrencyConflict ErrorCode = "CONCURRENCY_CONFLICT"
)

// Error is the typed error returned by every engine operation.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is an engine Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// CodeOf returns the code of an engine Error, or "" for other errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
