package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation        ErrorType = "validation"
	ErrorTypeLoad              ErrorType = "load"
	ErrorTypePageCountMismatch ErrorType = "page_count_mismatch"
	ErrorTypeGeometry          ErrorType = "geometry_out_of_bounds"
	ErrorTypeMissingPage       ErrorType = "missing_counterpart_page"
	ErrorTypeWorker            ErrorType = "worker"
	ErrorTypeNotFound          ErrorType = "not_found"
	ErrorTypeUnauthorized      ErrorType = "unauthorized"
	ErrorTypeInternal          ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Details    string    `json:"details,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Details:    detail,
		StatusCode: http.StatusBadRequest,
	}
}

// NewLoadError creates an error for a PDF that failed to open or parse
func NewLoadError(path string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeLoad,
		Message:    "failed to load " + path,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewPageCountMismatchError creates an error for pairs with different page counts
func NewPageCountMismatchError(name string, pagesA, pagesB int, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypePageCountMismatch,
		Message:    name,
		Details:    fmt.Sprintf("%d pages vs %d pages", pagesA, pagesB),
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewGeometryError creates an error for an element box outside the rendered page
func NewGeometryError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeGeometry,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewMissingPageError creates an error for a page without counterpart
func NewMissingPageError(name string, pageNumber int, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeMissingPage,
		Message:    name,
		Details:    fmt.Sprintf("page %d", pageNumber),
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewWorkerError creates an error for a job that failed unexpectedly
func NewWorkerError(name string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeWorker,
		Message:    "comparison of " + name + " failed",
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// IsType checks if the error, or any error it wraps, is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
