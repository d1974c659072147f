package mailat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mailat/mailat-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAPIKey is returned when no API key is provided.
	ErrMissingAPIKey = errors.New("API key is required")

	// ErrClientClosed is returned when operations are attempted on a closed client.
	ErrClientClosed = errors.New("client has been closed")

	// ErrUnauthorized is returned when the API key is invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired API key")

	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidSignature is returned when webhook signature verification fails.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrBatchTooLarge is returned when a batch send exceeds the 100-email cap.
	ErrBatchTooLarge = errors.New("batch size cannot exceed 100 emails")
)

// Error is implemented by all SDK errors.
type Error interface {
	error
	MailatError() // marker method
}

// ConfigurationError indicates invalid client setup, such as a missing API
// key. It is returned synchronously from New.
type ConfigurationError struct {
	Message string

	sentinel error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap returns the matching sentinel, if any.
func (e *ConfigurationError) Unwrap() error {
	return e.sentinel
}

// MailatError implements the Error interface.
func (e *ConfigurationError) MailatError() {}

// AuthenticationError represents an HTTP 401 response or a failed webhook
// signature check.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error: %s", e.Message)
}

// Is implements errors.Is for sentinel error matching. Webhook signature
// failures additionally match ErrInvalidSignature.
func (e *AuthenticationError) Is(target error) bool {
	if target == ErrUnauthorized {
		return true
	}
	return target == ErrInvalidSignature && strings.Contains(strings.ToLower(e.Message), "signature")
}

// MailatError implements the Error interface.
func (e *AuthenticationError) MailatError() {}

// NotFoundError represents an HTTP 404 response.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Message)
}

// Is implements errors.Is for sentinel error matching.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// MailatError implements the Error interface.
func (e *NotFoundError) MailatError() {}

// ValidationError represents an HTTP 400 response, or a request rejected
// client-side before any network I/O. Fields maps field names to their
// individual validation failures when the server provides that detail.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("validation failed: %s (%d invalid field(s))", e.Message, len(e.Fields))
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool {
	return target == ErrBatchTooLarge && strings.Contains(e.Message, "batch size")
}

// MailatError implements the Error interface.
func (e *ValidationError) MailatError() {}

// RateLimitError represents an HTTP 429 response after retries were
// exhausted. RetryAfter is the server-supplied hint in seconds, 0 if absent.
type RateLimitError struct {
	Message    string
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: %s (retry after %ds)", e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("rate limited: %s", e.Message)
}

// Is implements errors.Is for sentinel error matching.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// MailatError implements the Error interface.
func (e *RateLimitError) MailatError() {}

// ServerError represents an HTTP 5xx response. These are surfaced to the
// caller without retrying.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.StatusCode, e.Message)
}

// MailatError implements the Error interface.
func (e *ServerError) MailatError() {}

// APIError is the catch-all for non-success statuses not covered by a more
// specific kind. Code is the machine-readable error code when the server
// provides one.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error %d: %s (code: %s)", e.StatusCode, e.Message, e.Code)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// MailatError implements the Error interface.
func (e *APIError) MailatError() {}

// NetworkError represents a transport-level failure after retries were
// exhausted: timeout, connection refused, DNS failure, reset. There is no
// HTTP status code for these (conventionally 0).
type NetworkError struct {
	Err      error
	URL      string
	Attempts int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MailatError implements the Error interface.
func (e *NetworkError) MailatError() {}

// ParseError indicates a response or webhook body was not valid JSON where
// JSON was required, after authentication and status checks passed.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// MailatError implements the Error interface.
func (e *ParseError) MailatError() {}

// wrapError converts internal transport errors into the public taxonomy.
// Callers distinguish error kinds with errors.As/errors.Is; message text is
// for humans only.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, apierrors.ErrClientClosed) {
		return ErrClientClosed
	}

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 400:
			return &ValidationError{Message: apiErr.Message, Fields: apiErr.Fields}
		case apiErr.StatusCode == 401:
			return &AuthenticationError{Message: apiErr.Message}
		case apiErr.StatusCode == 404:
			return &NotFoundError{Message: apiErr.Message}
		case apiErr.StatusCode == 429:
			return &RateLimitError{Message: apiErr.Message, RetryAfter: apiErr.RetryAfter}
		case apiErr.StatusCode >= 500:
			return &ServerError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		default:
			return &APIError{StatusCode: apiErr.StatusCode, Message: apiErr.Message, Code: apiErr.Code}
		}
	}

	var netErr *apierrors.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{Err: netErr.Err, URL: netErr.URL, Attempts: netErr.Attempts}
	}

	var parseErr *apierrors.ParseError
	if errors.As(err, &parseErr) {
		return &ParseError{Err: parseErr.Err}
	}

	var cfgErr *apierrors.ConfigurationError
	if errors.As(err, &cfgErr) {
		ce := &ConfigurationError{Message: cfgErr.Message}
		if strings.Contains(cfgErr.Message, "API key") {
			ce.sentinel = ErrMissingAPIKey
		}
		return ce
	}

	return err
}
