package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across the client.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeRejected     ErrorCode = "REJECTED"
	ErrCodeTransport    ErrorCode = "TRANSPORT"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrNotAuthenticated    = NewError(ErrCodeUnauthorized, "authentication required")
	ErrMissingRefreshToken = NewError(ErrCodeUnauthorized, "missing refresh token")
	ErrEmptyCart           = NewError(ErrCodeInvalid, "cart is empty")
	ErrProductNotFound     = NewError(ErrCodeNotFound, "product not found")
	ErrDebtNotFound        = NewError(ErrCodeNotFound, "debt record not found")
	ErrInvalidPayload      = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// ErrorMessage extracts the human-readable message from an error chain,
// preferring server-provided text carried by a domain error.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var dErr *Error
	if errors.As(err, &dErr) && dErr.Message != "" {
		return dErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
