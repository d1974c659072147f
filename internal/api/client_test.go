package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mailat/mailat-go/internal/apierrors"
)

// noSleep replaces the backoff sleep in tests and records requested delays.
func noSleep(delays *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "https://example.com"})
	if err == nil {
		t.Fatal("expected error for empty API key")
	}
	var cfgErr *apierrors.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigurationError, got %T", err)
	}
}

func TestNewClient_DefaultValues(t *testing.T) {
	client, err := NewClient(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %s, want %s", client.baseURL, DefaultBaseURL)
	}
	if client.maxRetries != DefaultMaxRetries {
		t.Errorf("maxRetries = %d, want %d", client.maxRetries, DefaultMaxRetries)
	}
	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client, err := NewClient(Config{APIKey: "test-key", BaseURL: "https://example.com/api/v1/"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.baseURL != "https://example.com/api/v1" {
		t.Errorf("baseURL = %s, want https://example.com/api/v1", client.baseURL)
	}
}

func TestNewClient_NegativeMaxRetriesDisablesRetries(t *testing.T) {
	client, err := NewClient(Config{APIKey: "test-key", MaxRetries: -1})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.maxRetries != 0 {
		t.Errorf("maxRetries = %d, want 0", client.maxRetries)
	}
}

func TestClient_Do_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %s, want Bearer test-key", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", got)
		}
		if got := r.Header.Get("User-Agent"); got != "mailat-go/test" {
			t.Errorf("User-Agent = %s, want mailat-go/test", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"id": "em_123"}}`))
	}))
	defer server.Close()

	client, _ := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, UserAgent: "mailat-go/test"})

	var result struct {
		ID string `json:"id"`
	}
	if err := client.Do(context.Background(), "GET", "/emails/em_123", nil, &result); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if result.ID != "em_123" {
		t.Errorf("result.ID = %s, want em_123", result.ID)
	}
}

func TestClient_Do_SuccessWithoutEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "em_456"}`))
	}))
	defer server.Close()

	client, _ := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	var result struct {
		ID string `json:"id"`
	}
	if err := client.Do(context.Background(), "GET", "/emails/em_456", nil, &result); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if result.ID != "em_456" {
		t.Errorf("result.ID = %s, want em_456", result.ID)
	}
}

func TestClient_Do_ExtraHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Idempotency-Key"); got != "key-789" {
			t.Errorf("Idempotency-Key = %s, want key-789", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	req := &Request{
		Method:  "POST",
		Path:    "/emails",
		Body:    map[string]string{"subject": "hi"},
		Headers: map[string]string{"Idempotency-Key": "key-789"},
	}
	if err := client.DoRequest(context.Background(), req, nil); err != nil {
		t.Fatalf("DoRequest() error = %v", err)
	}
}

func TestClient_Do_RetriesRateLimit(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"message": "rate limit exceeded"}`))
			return
		}
		w.Write([]byte(`{"data": {"ok": true}}`))
	}))
	defer server.Close()

	client, _ := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, MaxRetries: 3})
	var delays []time.Duration
	client.sleep = noSleep(&delays)

	var result struct {
		OK bool `json:"ok"`
	}
	if err := client.Do(context.Background(), "GET", "/test", nil, &result); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !result.OK {
		t.Error("result.OK = false, want true")
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}

	// Exponential backoff without a Retry-After hint: 1s then 2s.
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delays[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestClient_Do_RetryAfterHeaderOverridesBackoff(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) == 1 {
			w.Header().Set("Retry-After", "5")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, MaxRetries: 3})
	var delays []time.Duration
	client.sleep = noSleep(&delays)

	if err := client.Do(context.Background(), "GET", "/test", nil, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if len(delays) != 1 || delays[0] != 5*time.Second {
		t.Errorf("delays = %v, want [5s]", delays)
	}
}

func TestClient_Do_RateLimitExhaustion(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message": "rate limit exceeded"}`))
	}))
	defer server.Close()

	client, _ := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, MaxRetries: 2})
	var delays []time.Duration
	client.sleep = noSleep(&delays)

	err := client.Do(context.Background(), "GET", "/test", nil, nil)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != 429 {
		t.Errorf("StatusCode = %d, want 429", apiErr.StatusCode)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("attempts = %d, want 3 (1 + 2 retries)", got)
	}
}

func TestClient_Do_NoRetryOnTerminalStatuses(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"bad request", 400},
		{"unauthorized", 401},
		{"not found", 404},
		{"server error", 500},
		{"bad gateway", 502},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&attempts, 1)
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(`{"message": "nope"}`))
			}))
			defer server.Close()

			client, _ := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, MaxRetries: 3})
			var delays []time.Duration
			client.sleep = noSleep(&delays)

			err := client.Do(context.Background(), "GET", "/test", nil, nil)
			if err == nil {
				t.Fatal("expected error")
			}
			var apiErr *apierrors.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %T", err)
			}
			if apiErr.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.statusCode)
			}
			if got := atomic.LoadInt32(&attempts); got != 1 {
				t.Errorf("attempts = %d, want 1", got)
			}
		})
	}
}

func TestClient_Do_ErrorEnvelopeFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "validation failed", "code": "invalid_request", "errors": {"to": ["required"]}}`))
	}))
	defer server.Close()

	client, _ := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	err := client.Do(context.Background(), "POST", "/emails", nil, nil)
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Message != "validation failed" {
		t.Errorf("Message = %s, want validation failed", apiErr.Message)
	}
	if apiErr.Code != "invalid_request" {
		t.Errorf("Code = %s, want invalid_request", apiErr.Code)
	}
	if got := apiErr.Fields["to"]; len(got) != 1 || got[0] != "required" {
		t.Errorf("Fields[to] = %v, want [required]", got)
	}
}

func TestClient_Do_UnparsableErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client, _ := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	err := client.Do(context.Background(), "GET", "/test", nil, nil)
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Message != "Unknown error" {
		t.Errorf("Message = %s, want Unknown error", apiErr.Message)
	}
}

func TestClient_Do_NetworkErrorExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Every attempt now fails at the dial.

	client, _ := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, MaxRetries: 2})
	var delays []time.Duration
	client.sleep = noSleep(&delays)

	err := client.Do(context.Background(), "GET", "/test", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var netErr *apierrors.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %T", err)
	}
	if netErr.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", netErr.Attempts)
	}
	if len(delays) != 2 {
		t.Errorf("slept %d times, want 2", len(delays))
	}
}

func TestClient_Do_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	client, _ := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, MaxRetries: 3})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.Do(ctx, "GET", "/test", nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestClient_Do_AfterClose(t *testing.T) {
	client, _ := NewClient(Config{APIKey: "test-key"})
	client.Close()

	err := client.Do(context.Background(), "GET", "/test", nil, nil)
	if !errors.Is(err, apierrors.ErrClientClosed) {
		t.Errorf("err = %v, want ErrClientClosed", err)
	}
}

func TestClient_Do_DecodeFailureIsParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"id": 42}}`))
	}))
	defer server.Close()

	client, _ := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	var result struct {
		ID string `json:"id"` // number will not decode into a string
	}
	err := client.Do(context.Background(), "GET", "/test", nil, &result)
	var parseErr *apierrors.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
}

func TestBuildURL(t *testing.T) {
	client, _ := NewClient(Config{APIKey: "test-key", BaseURL: "https://example.com/api/v1"})

	tests := []struct {
		name  string
		path  string
		query map[string][]string
		want  string
	}{
		{"relative path", "/emails", nil, "https://example.com/api/v1/emails"},
		{"absolute URL passthrough", "https://other.example.com/page2", nil, "https://other.example.com/page2"},
		{"query encoding", "/emails", map[string][]string{"page": {"2"}, "status": {"sent"}}, "https://example.com/api/v1/emails?page=2&status=sent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := client.buildURL(tt.path, tt.query)
			if got != tt.want {
				t.Errorf("buildURL() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClient_Do_MarshalsRequestBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		if body["subject"] != "Welcome" {
			t.Errorf("body.subject = %v, want Welcome", body["subject"])
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})

	req := map[string]string{"subject": "Welcome"}
	if err := client.Do(context.Background(), "POST", "/emails", req, nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}
