package mailat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New("test-key", append([]Option{WithBaseURL(server.URL)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestEmails_Send(t *testing.T) {
	var sent map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Errorf("request = %s %s, want POST /emails", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &sent)
		w.Write([]byte(`{"data": {"id": "em_1", "status": "queued", "subject": "Welcome",
			"from": {"email": "hello@example.com", "name": "Example"},
			"to": [{"email": "user@example.com"}]}}`))
	})

	email, err := client.Emails.Send(context.Background(), &SendEmailParams{
		From:    NamedAddr("hello@example.com", "Example"),
		To:      To("user@example.com"),
		Subject: "Welcome",
		HTML:    "<h1>Hello</h1>",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	// Current-generation wire shape: object addresses, htmlBody field.
	from, ok := sent["from"].(map[string]any)
	if !ok || from["email"] != "hello@example.com" || from["name"] != "Example" {
		t.Errorf("from = %v", sent["from"])
	}
	if _, ok := sent["htmlBody"]; !ok {
		t.Error("request missing htmlBody field")
	}
	if _, ok := sent["html"]; ok {
		t.Error("request must not contain legacy html field")
	}

	if email.ID != "em_1" || email.Status != EmailStatusQueued {
		t.Errorf("email = %+v", email)
	}
	if email.From.Name != "Example" {
		t.Errorf("From = %+v", email.From)
	}
}

func TestEmails_Send_LegacyProfile(t *testing.T) {
	var sent map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &sent)
		w.Write([]byte(`{"data": {"id": "em_1", "to": ["user@example.com"]}}`))
	}, WithProfile(ProfileV1))

	_, err := client.Emails.Send(context.Background(), &SendEmailParams{
		From:    NamedAddr("hello@example.com", "Example"),
		To:      To("user@example.com"),
		Subject: "Welcome",
		HTML:    "<h1>Hello</h1>",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	// First-generation wire shape: string addresses, html field.
	if sent["from"] != "Example <hello@example.com>" {
		t.Errorf("from = %v", sent["from"])
	}
	to, ok := sent["to"].([]any)
	if !ok || len(to) != 1 || to[0] != "user@example.com" {
		t.Errorf("to = %v", sent["to"])
	}
	if _, ok := sent["html"]; !ok {
		t.Error("request missing html field")
	}
	if _, ok := sent["htmlBody"]; ok {
		t.Error("legacy request must not contain htmlBody field")
	}
}

func TestEmails_Send_IdempotencyKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Idempotency-Key"); got != "order-42" {
			t.Errorf("Idempotency-Key = %s, want order-42", got)
		}
		w.Write([]byte(`{"data": {"id": "em_1"}}`))
	})

	_, err := client.Emails.Send(context.Background(), &SendEmailParams{
		To:             To("user@example.com"),
		Subject:        "Receipt",
		Text:           "Thanks",
		IdempotencyKey: "order-42",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
}

func TestEmails_SendBatch_CapEnforcedBeforeNetwork(t *testing.T) {
	var requests int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Write([]byte(`{"data": {"sent": 0, "failed": 0}}`))
	})

	batch := make([]*SendEmailParams, 101)
	for i := range batch {
		batch[i] = &SendEmailParams{To: To("user@example.com"), Subject: "x", Text: "x"}
	}

	_, err := client.Emails.SendBatch(context.Background(), batch)
	if !errors.Is(err, ErrBatchTooLarge) {
		t.Errorf("err = %v, want ErrBatchTooLarge", err)
	}
	if atomic.LoadInt32(&requests) != 0 {
		t.Error("oversized batch must be rejected before any network I/O")
	}
}

func TestEmails_SendBatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails/batch" {
			t.Errorf("path = %s, want /emails/batch", r.URL.Path)
		}
		var body struct {
			Emails []json.RawMessage `json:"emails"`
		}
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)
		if len(body.Emails) != 2 {
			t.Errorf("batch size = %d, want 2", len(body.Emails))
		}
		w.Write([]byte(`{"data": {"sent": 1, "failed": 1, "results": [
			{"index": 0, "id": "em_1", "status": "queued"},
			{"index": 1, "status": "failed", "message": "invalid recipient"}]}}`))
	})

	result, err := client.Emails.SendBatch(context.Background(), []*SendEmailParams{
		{To: To("a@example.com"), Subject: "x", Text: "x"},
		{To: To("bad"), Subject: "x", Text: "x"},
	})
	if err != nil {
		t.Fatalf("SendBatch() error = %v", err)
	}
	if result.Sent != 1 || result.Failed != 1 || len(result.Results) != 2 {
		t.Errorf("result = %+v", result)
	}
}

func TestEmails_Cancel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/emails/em_1" {
			t.Errorf("request = %s %s, want DELETE /emails/em_1", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"data": {"id": "em_1", "status": "cancelled"}}`))
	})

	email, err := client.Emails.Cancel(context.Background(), "em_1")
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if email.Status != EmailStatusCancelled {
		t.Errorf("Status = %s, want cancelled", email.Status)
	}
}

func TestEmails_List(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("status") != "sent" || q.Get("page") != "2" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"data": {"emails": [{"id": "em_1"}], "page": 2, "limit": 20, "total": 41}}`))
	})

	list, err := client.Emails.List(context.Background(), ListEmailsParams{Page: 2, Limit: 20, Status: EmailStatusSent})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list.Emails) != 1 || list.Total != 41 {
		t.Errorf("list = %+v", list)
	}
}

func TestEmails_GetEvents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails/em_1/events" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"data": [{"eventType": "delivered"}, {"eventType": "opened"}]}`))
	})

	events, err := client.Emails.GetEvents(context.Background(), "em_1")
	if err != nil {
		t.Fatalf("GetEvents() error = %v", err)
	}
	if len(events) != 2 || events[0].EventType != "delivered" {
		t.Errorf("events = %+v", events)
	}
}
