package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mailat/mailat-go/internal/apierrors"
)

// Defaults for client construction.
const (
	DefaultBaseURL    = "https://api.mailat.co/api/v1"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
)

// Config holds construction-time configuration for the transport.
type Config struct {
	// APIKey is the bearer credential. Required.
	APIKey string
	// BaseURL is the prefix for all relative paths. Trailing slashes are
	// trimmed. Defaults to DefaultBaseURL.
	BaseURL string
	// Timeout is the per-attempt wall-clock limit. Defaults to
	// DefaultTimeout. Ignored when HTTPClient is set.
	Timeout time.Duration
	// MaxRetries bounds retry attempts after the first try. Zero means
	// DefaultMaxRetries; a negative value disables retries.
	MaxRetries int
	// HTTPClient overrides the pooled HTTP client.
	HTTPClient *http.Client
	// UserAgent identifies the SDK on every request.
	UserAgent string
}

// Client is the HTTP transport for the mailat API. It owns one pooled
// connection object, reused across calls and released by Close.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	maxRetries int
	closed     atomic.Bool

	// sleep suspends between retry attempts; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Request describes one API call. Built fresh per call, never reused.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any
	Headers map[string]string
}

// NewClient creates the transport. An empty API key is a configuration
// error, reported synchronously.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &apierrors.ConfigurationError{Message: "API key is required"}
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		maxRetries: DefaultMaxRetries,
		sleep:      sleepContext,
	}

	if cfg.BaseURL != "" {
		c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.MaxRetries > 0 {
		c.maxRetries = cfg.MaxRetries
	} else if cfg.MaxRetries < 0 {
		c.maxRetries = 0
	}

	if cfg.HTTPClient != nil {
		c.httpClient = cfg.HTTPClient
	} else {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.httpClient = &http.Client{Timeout: timeout}
	}

	return c, nil
}

// Close releases the pooled connections. Requests after Close fail with
// apierrors.ErrClientClosed.
func (c *Client) Close() {
	if c.closed.CompareAndSwap(false, true) {
		c.httpClient.CloseIdleConnections()
	}
}

// Do sends a simple request without query parameters or extra headers.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	return c.DoRequest(ctx, &Request{Method: method, Path: path, Body: body}, out)
}

// DoRequest sends one logical API call to completion, including retries,
// and decodes the success payload into out (when non-nil).
//
// Transient outcomes (network failures, timeouts, HTTP 429) are retried up
// to 1+maxRetries total attempts with exponential backoff (2^attempt
// seconds, 0-based); a 429 response's Retry-After header overrides the
// exponential delay. All other failures surface immediately. HTTP 5xx is
// deliberately not retried: the reference service reports 5xx for
// non-idempotent pipeline failures, so the caller decides.
func (c *Client) DoRequest(ctx context.Context, req *Request, out any) error {
	if c.closed.Load() {
		return apierrors.ErrClientClosed
	}

	fullURL := c.buildURL(req.Path, req.Query)

	var bodyBytes []byte
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return &apierrors.ParseError{Err: err}
		}
		bodyBytes = data
	}

	st := newRetryState(c.maxRetries)
	for {
		switch st.phase {
		case phaseAttempt:
			raw, err := c.attempt(ctx, req.Method, fullURL, bodyBytes, req.Headers)
			c.classify(st, fullURL, raw, err)

		case phaseBackoff:
			if err := c.sleep(ctx, st.delay); err != nil {
				return err
			}
			st.resume()

		case phaseDone:
			if st.err != nil {
				return st.err
			}
			if out == nil || len(st.result) == 0 {
				return nil
			}
			if err := json.Unmarshal(st.result, out); err != nil {
				return &apierrors.ParseError{Err: err}
			}
			return nil
		}
	}
}

// classify folds one attempt outcome into the retry state.
func (c *Client) classify(st *retryState, fullURL string, raw json.RawMessage, err error) {
	if err == nil {
		st.finish(raw, nil)
		return
	}

	var netErr *apierrors.NetworkError
	if errors.As(err, &netErr) {
		if st.scheduleRetry(st.backoffDelay()) {
			return
		}
		netErr.Attempts = st.attempt + 1
		st.finish(nil, netErr)
		return
	}

	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		delay := st.backoffDelay()
		if apiErr.RetryAfter > 0 {
			delay = time.Duration(apiErr.RetryAfter) * time.Second
		}
		if st.scheduleRetry(delay) {
			return
		}
	}

	st.finish(nil, err)
}

// attempt performs a single HTTP exchange and classifies the response.
// It returns the success payload (the envelope's data field when present,
// the whole body otherwise) or a typed error.
func (c *Client) attempt(ctx context.Context, method, fullURL string, body []byte, headers map[string]string) (json.RawMessage, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, &apierrors.NetworkError{Err: err, URL: fullURL}
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// A canceled context is the caller's decision, not a transient
		// network condition.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &apierrors.NetworkError{Err: err, URL: fullURL}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apierrors.NetworkError{Err: err, URL: fullURL}
	}

	// Unparsable or empty bodies are never fatal at this stage.
	var env struct {
		Data    json.RawMessage     `json:"data"`
		Message string              `json:"message"`
		Code    string              `json:"code"`
		Errors  map[string][]string `json:"errors"`
	}
	_ = json.Unmarshal(respBody, &env)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if env.Data != nil {
			return env.Data, nil
		}
		return respBody, nil
	}

	message := env.Message
	if message == "" {
		message = "Unknown error"
	}

	apiErr := &apierrors.APIError{
		StatusCode: resp.StatusCode,
		Message:    message,
		Code:       env.Code,
		Fields:     env.Errors,
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		if ra, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			apiErr.RetryAfter = ra
		}
	}
	return nil, apiErr
}

// buildURL resolves path against the base URL. Absolute URLs pass through
// verbatim (used for server-provided pagination links).
func (c *Client) buildURL(path string, query url.Values) string {
	fullURL := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		fullURL = c.baseURL + path
	}
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	return fullURL
}
