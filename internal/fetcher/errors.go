package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error that occurred during a fetch operation
type ErrorType string

const (
	// ErrorTypeNetwork indicates a network-level error (connection refused, DNS, etc.)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeServer indicates a server error (HTTP 5xx)
	ErrorTypeServer ErrorType = "server"
	// ErrorTypeClient indicates a client error (HTTP 4xx except 404)
	ErrorTypeClient ErrorType = "client"
	// ErrorTypeNotFound indicates the provider does not know the symbol
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeProcessing indicates the response was received but could not be parsed
	ErrorTypeProcessing ErrorType = "processing"
	// ErrorTypeTimeout indicates the request timed out
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeUnavailable indicates the provider was short-circuited by its breaker
	ErrorTypeUnavailable ErrorType = "unavailable"
	// ErrorTypeUnknown indicates an error of unknown type
	ErrorTypeUnknown ErrorType = "unknown"
)

// StatusUnprocessable is the code reported when a payload arrives but cannot be used.
const StatusUnprocessable = http.StatusFailedDependency

// FetchError is the failure half of a provider Result. StatusCode is an HTTP-like
// code and Message the matching reason, mirroring what the provider reported.
type FetchError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Transient reports whether the failure says something about the provider's health
// rather than about the symbol being looked up.
func (e *FetchError) Transient() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeServer, ErrorTypeTimeout:
		return true
	}
	return false
}

// NewNetworkError creates a network error. Deadline and cancellation causes are
// reported as timeouts.
func NewNetworkError(cause error) *FetchError {
	if errors.Is(cause, context.DeadlineExceeded) || errors.Is(cause, context.Canceled) {
		return NewTimeoutError(cause)
	}
	return &FetchError{
		Type:       ErrorTypeNetwork,
		StatusCode: http.StatusServiceUnavailable,
		Message:    "network request failed",
		Cause:      cause,
	}
}

// NewServerError creates a server error
func NewServerError(statusCode int, reason string) *FetchError {
	return &FetchError{
		Type:       ErrorTypeServer,
		StatusCode: statusCode,
		Message:    reason,
	}
}

// NewClientError creates a client error
func NewClientError(statusCode int, message string) *FetchError {
	return &FetchError{
		Type:       ErrorTypeClient,
		StatusCode: statusCode,
		Message:    message,
	}
}

// NewNotFoundError creates a not-found error
func NewNotFoundError(message string) *FetchError {
	return &FetchError{
		Type:       ErrorTypeNotFound,
		StatusCode: http.StatusNotFound,
		Message:    message,
	}
}

// NewProcessingError creates an error for payloads that could not be parsed
func NewProcessingError(cause error) *FetchError {
	return &FetchError{
		Type:       ErrorTypeProcessing,
		StatusCode: StatusUnprocessable,
		Message:    "Data could not be processed",
		Cause:      cause,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(cause error) *FetchError {
	return &FetchError{
		Type:       ErrorTypeTimeout,
		StatusCode: http.StatusGatewayTimeout,
		Message:    "request timed out",
		Cause:      cause,
	}
}

// NewUnavailableError creates the error returned while a provider's breaker is open
func NewUnavailableError(cause error) *FetchError {
	return &FetchError{
		Type:       ErrorTypeUnavailable,
		StatusCode: http.StatusServiceUnavailable,
		Message:    "provider unavailable",
		Cause:      cause,
	}
}

// ClassifyHTTPError classifies an HTTP status code into an appropriate FetchError.
// reason is the status text sent by the provider; an empty reason falls back to
// the standard text for the code.
func ClassifyHTTPError(statusCode int, reason string) *FetchError {
	if reason == "" {
		reason = http.StatusText(statusCode)
	}
	switch {
	case statusCode == http.StatusNotFound:
		return &FetchError{Type: ErrorTypeNotFound, StatusCode: statusCode, Message: reason}
	case statusCode >= 500:
		return NewServerError(statusCode, reason)
	case statusCode >= 400:
		return NewClientError(statusCode, reason)
	default:
		return &FetchError{
			Type:       ErrorTypeUnknown,
			StatusCode: statusCode,
			Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		}
	}
}
