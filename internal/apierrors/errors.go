// Package apierrors provides transport-level error types for the mailat
// client. The public package wraps these into the exported taxonomy.
package apierrors

import (
	"errors"
	"fmt"
)

// ErrClientClosed is returned when a request is attempted on a closed client.
var ErrClientClosed = errors.New("client has been closed")

// ConfigurationError indicates invalid client setup, detected at construction.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// APIError represents a non-success HTTP response from the mailat API.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
	RetryAfter int
	Fields     map[string][]string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error %d: %s (code: %s)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// NetworkError represents a transport-level failure: timeout, connection
// refused, DNS failure, reset. Status code is 0 by definition.
type NetworkError struct {
	Err      error
	URL      string
	Attempts int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error after %d attempt(s): %v", e.Attempts, e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError indicates a response body was not valid JSON where the caller
// required a decoded result.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
