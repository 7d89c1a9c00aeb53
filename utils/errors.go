package utils

import (
	"errors"
	"fmt"
	"time"
)

type ErrorCode string

const (
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
)

// StandardError is the error type services return to handlers. Code decides
// the HTTP status; Details is safe to show to API clients.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

func NewNotFoundError(message, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreUnavailableError wraps a store fault. The cause is kept for logs
// and errors.Is but not exposed in Details.
func NewStoreUnavailableError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreUnavailable,
		Message:   "Catalog store unavailable",
		Details:   fmt.Sprintf("operation: %s", op),
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewUnauthorizedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnauthorized,
		Message:   "Unauthorized",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf returns the StandardError code in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
