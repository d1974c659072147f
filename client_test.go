package mailat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New("")
	if err == nil {
		t.Fatal("expected error for empty API key")
	}
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("err = %v, want ErrMissingAPIKey", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	client, err := New("test-key")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	if client.profile != ProfileV2 {
		t.Errorf("profile = %s, want %s", client.profile, ProfileV2)
	}
	if client.Emails == nil || client.Templates == nil || client.Webhooks == nil ||
		client.Contacts == nil || client.Campaigns == nil || client.Domains == nil {
		t.Error("service namespaces not wired")
	}
}

func TestNew_WithOptions(t *testing.T) {
	client, err := New("test-key",
		WithBaseURL("https://staging.mailat.co/api/v1"),
		WithTimeout(60*time.Second),
		WithMaxRetries(5),
		WithProfile(ProfileV1),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	if client.profile != ProfileV1 {
		t.Errorf("profile = %s, want %s", client.profile, ProfileV1)
	}
}

func TestClient_UseAfterClose(t *testing.T) {
	client, err := New("test-key")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	client.Close()

	_, err = client.Emails.Get(context.Background(), "em_1")
	if !errors.Is(err, ErrClientClosed) {
		t.Errorf("err = %v, want ErrClientClosed", err)
	}

	// Close is idempotent.
	client.Close()
}

func TestClient_UserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "mailat-go/"+Version {
			t.Errorf("User-Agent = %s, want mailat-go/%s", got, Version)
		}
		w.Write([]byte(`{"data": {"id": "em_1"}}`))
	}))
	defer server.Close()

	client, err := New("test-key", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	if _, err := client.Emails.Get(context.Background(), "em_1"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
}

func TestClient_ErrorsAreWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "email not found"}`))
	}))
	defer server.Close()

	client, err := New("test-key", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	_, err = client.Emails.Get(context.Background(), "em_missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError, got %T", err)
	}
	if notFoundErr.Message != "email not found" {
		t.Errorf("Message = %s, want email not found", notFoundErr.Message)
	}
}
