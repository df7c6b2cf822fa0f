// Package apperrors holds the typed application errors shared across layers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an error for logging and HTTP mapping.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeInternal   ErrorType = "INTERNAL"
	ErrorTypeDatabase   ErrorType = "DATABASE"
	ErrorTypeExternal   ErrorType = "EXTERNAL"
)

// Sentinels for the navigation boundary. Both surface as 404, but callers can
// tell a syntactically invalid identifier apart from a well-formed one that
// matches no node.
var (
	ErrInvalidID    = errors.New("invalid node identifier")
	ErrNodeNotFound = errors.New("node not found")
)

// AppError is an application error carrying its HTTP status.
type AppError struct {
	Type       ErrorType
	Message    string
	Code       string
	Cause      error
	HTTPStatus int
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause wraps an underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Code:       "VALIDATION_ERROR",
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not-found error for the named resource.
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Code:       "NOT_FOUND",
		HTTPStatus: http.StatusNotFound,
	}
}

// NewDatabaseError creates a storage-layer error.
func NewDatabaseError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDatabase,
		Message:    message,
		Code:       "DATABASE_ERROR",
		Cause:      cause,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		Code:       "INTERNAL_ERROR",
		Cause:      cause,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// HTTPStatusOf maps any error to a response status. Navigation sentinels map
// to 404; typed AppErrors carry their own status; everything else is a 500.
func HTTPStatusOf(err error) int {
	var appErr *AppError
	switch {
	case errors.Is(err, ErrNodeNotFound), errors.Is(err, ErrInvalidID):
		return http.StatusNotFound
	case errors.As(err, &appErr):
		return appErr.HTTPStatus
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf returns the stable error code for a response body.
func CodeOf(err error) string {
	var appErr *AppError
	switch {
	case errors.Is(err, ErrInvalidID):
		return "INVALID_ID"
	case errors.Is(err, ErrNodeNotFound):
		return "NOT_FOUND"
	case errors.As(err, &appErr):
		return appErr.Code
	default:
		return "INTERNAL_ERROR"
	}
}
