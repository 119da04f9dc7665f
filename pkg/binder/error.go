package binder

import (
	"errors"
	"fmt"
	"net/http"
)

// HttpError represents an HTTP error with a specific status code and message
type HttpError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *HttpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHttpError creates a new HttpError with the given status code and message
func NewHttpError(statusCode int, message string) *HttpError {
	return &HttpError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewHttpErrorWithDetails creates a new HttpError with additional details
func NewHttpErrorWithDetails(statusCode int, message string, details any) *HttpError {
	return &HttpError{
		StatusCode: statusCode,
		Message:    message,
		Details:    details,
	}
}

// ErrBadRequest creates a 400 Bad Request error
func ErrBadRequest(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message)
}

// ErrUnprocessableEntityWithDetails creates a 422 Unprocessable Entity error with validation details
func ErrUnprocessableEntityWithDetails(message string, details any) *HttpError {
	return NewHttpErrorWithDetails(http.StatusUnprocessableEntity, message, details)
}

// ErrInternalServerError creates a 500 Internal Server Error
func ErrInternalServerError(message string) *HttpError {
	return NewHttpError(http.StatusInternalServerError, message)
}

// ErrorResponse maps a handler error to a status code and JSON body
func ErrorResponse(err error) (int, any) {
	var httpErr *HttpError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, httpErr
	}
	return http.StatusInternalServerError, ErrInternalServerError(err.Error())
}

// BindingError details which parameter failed to bind
type BindingError struct {
	Source string `json:"source"`
	Name   string `json:"name"`
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}
