// Package model holds the wire-level types shared by the HTTP and MCP transports.
package model

import (
	"errors"
	"fmt"

	"lti-provider/internal/lti"
)

// Sentinel errors for common cases.
// Use errors.Is() to check against these.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotAcceptable  = errors.New("not acceptable")
)

// APIError represents a structured error for API responses.
// Implements error interface and supports unwrapping.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"` // HTTP status, not serialized
	Err        error  `json:"-"` // Wrapped error, not serialized
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a 400 error for invalid input.
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    fmt.Sprintf("invalid %s: %s", field, reason),
		StatusCode: 400,
		Err:        ErrInvalidRequest,
	}
}

// NewConfigurationError creates a 400 error from a rejected tool setting.
// The code carries the configuration error kind.
func NewConfigurationError(err *lti.ConfigurationError) *APIError {
	return &APIError{
		Code:       "CONFIGURATION_ERROR",
		Message:    fmt.Sprintf("%s: %s", err.Kind, err.Message),
		StatusCode: 400,
		Err:        err,
	}
}

// NewNotAcceptableError creates a 406 error when the client refuses XML.
func NewNotAcceptableError(accept string) *APIError {
	return &APIError{
		Code:       "NOT_ACCEPTABLE",
		Message:    fmt.Sprintf("cannot satisfy Accept: %s", accept),
		StatusCode: 406,
		Err:        ErrNotAcceptable,
	}
}

// NewInternalError creates a 500 error for unexpected failures.
func NewInternalError(err error) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    "an internal error occurred",
		StatusCode: 500,
		Err:        err,
	}
}

// FromError maps any error to an APIError.
// Configuration errors become 400s; unknown errors become 500s.
func FromError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var cfgErr *lti.ConfigurationError
	if errors.As(err, &cfgErr) {
		return NewConfigurationError(cfgErr)
	}
	return NewInternalError(err)
}
