// Package apperror provides structured errors rendered as problem-style JSON.
// Every business failure surfaced to a client is an AppError.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes.
const (
	// 5xx
	CodeInternal = "INTERNAL_ERROR"

	// 400
	CodeValidation = "VALIDATION_ERROR"

	// 401, 403
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// 404
	CodeNotFound = "NOT_FOUND"

	// 409
	CodeConflict      = "CONFLICT"
	CodeDuplicate     = "DUPLICATE_ENTRY"
	CodePeriodOverlap = "STATEMENT_PERIOD_OVERLAP"

	// 429
	CodeRateLimited = "RATE_LIMITED"
)

// AppError is the standard error type of the application.
type AppError struct {
	// Code is a machine-readable error identifier
	Code string `json:"code"`

	// Message is a human-readable description
	Message string `json:"message"`

	// Details carries extra context (offending field, ids, dates)
	Details map[string]any `json:"details,omitempty"`

	// HTTPStatus is the status the error handler responds with
	HTTPStatus int `json:"-"`

	// Err is the underlying cause, never serialized
	Err error `json:"-"`
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// --- Factories ---

// NewValidation creates a validation error (400).
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewFieldValidation creates a validation error pointing at one input field.
func NewFieldValidation(field, message string) *AppError {
	return NewValidation(message).WithDetail("field", field)
}

// NewNotFound creates a not found error (404).
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewInternal creates an internal error; the cause is logged, not returned.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401).
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403).
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflict creates a conflict error (409).
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDuplicate creates a duplicate entry error (409).
func NewDuplicate(entity, field, value string) *AppError {
	return &AppError{
		Code:       CodeDuplicate,
		Message:    fmt.Sprintf("%s with this %s already exists", entity, field),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"entity": entity, "field": field, "value": value},
	}
}

// NewPeriodOverlap reports a statement whose date range intersects another
// statement of the same centre and item.
func NewPeriodOverlap(existingID any) *AppError {
	return &AppError{
		Code:       CodePeriodOverlap,
		Message:    "Statement period overlaps an existing statement for this centre and item",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"existing_id": existingID},
	}
}

// NewRateLimited creates a throttling error (429).
func NewRateLimited() *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    "Too many requests, retry later",
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// --- Helpers ---

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetHTTPStatus returns appropriate HTTP status for any error
func GetHTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

// HasCode reports whether err carries an AppError with the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// IsForbidden checks if error is CodeForbidden
func IsForbidden(err error) bool {
	return HasCode(err, CodeForbidden)
}
