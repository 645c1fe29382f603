package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeMissingField  ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidStatus ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidID     ErrorCode = "INVALID_ID"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeConflict      ErrorCode = "DUPLICATE_TASK"
	ErrCodeNetwork       ErrorCode = "NETWORK_ERROR"
	ErrCodeTimeout       ErrorCode = "TIMEOUT"
	ErrCodeServer        ErrorCode = "SERVER_ERROR"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// Error represents a domain-level error. Field names the offending
// request field when the classification applies to a single input.
type Error struct {
	Code    ErrorCode
	Message string
	Field   string
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

// NewFieldError builds a domain error tied to a request field.
func NewFieldError(code ErrorCode, field, message string) *Error {
	return &Error{Code: code, Message: message, Field: field}
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
	ErrTaskNotFound   = NewError(ErrCodeNotFound, "task not found")
	ErrDuplicateTask  = NewFieldError(ErrCodeConflict, "content", "a task with the same title already exists")
	ErrInvalidPayload = NewError(ErrCodeValidation, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// CodeOf extracts the error code, defaulting to INTERNAL_ERROR for
// unclassified errors.
func CodeOf(err error) ErrorCode {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code
	}
	return ErrCodeInternal
}
