package mailat

import (
	"errors"
	"testing"
	"time"

	"github.com/mailat/mailat-go/internal/signature"
)

const testSecret = "whsec_test_secret"

func TestVerifyWebhookSignature_Valid(t *testing.T) {
	payload := []byte(`{"id": "evt_1", "event": "email.delivered"}`)
	header := signature.SignTimestamped(payload, testSecret, time.Now())

	if err := VerifyWebhookSignature(payload, header, testSecret); err != nil {
		t.Errorf("VerifyWebhookSignature() error = %v, want nil", err)
	}
}

func TestVerifyWebhookSignature_TamperedPayload(t *testing.T) {
	payload := []byte(`{"id": "evt_1"}`)
	header := signature.SignTimestamped(payload, testSecret, time.Now())

	err := VerifyWebhookSignature([]byte(`{"id": "evt_FORGED"}`), header, testSecret)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("err = %v, want ErrInvalidSignature", err)
	}
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Errorf("expected AuthenticationError, got %T", err)
	}
}

func TestVerifyWebhookSignature_WrongSecret(t *testing.T) {
	payload := []byte(`{"id": "evt_1"}`)
	header := signature.SignTimestamped(payload, "other_secret", time.Now())

	if err := VerifyWebhookSignature(payload, header, testSecret); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestVerifyWebhookSignature_MalformedHeaders(t *testing.T) {
	payload := []byte(`{"id": "evt_1"}`)

	headers := []string{
		"",
		"garbage",
		"t=123",
		"v1=abc",
		"t=notanumber,v1=abc",
		"sha256=deadbeef",
	}
	for _, header := range headers {
		if err := VerifyWebhookSignature(payload, header, testSecret); err == nil {
			t.Errorf("header %q: expected error", header)
		}
	}
}

func TestVerifyWebhookSignature_StaleTimestamp(t *testing.T) {
	payload := []byte(`{"id": "evt_1"}`)
	signedAt := time.Now().Add(-6 * time.Minute)
	header := signature.SignTimestamped(payload, testSecret, signedAt)

	err := VerifyWebhookSignature(payload, header, testSecret)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("err = %v, want ErrInvalidSignature for stale timestamp", err)
	}
}

func TestVerifyWebhookSignature_CustomTolerance(t *testing.T) {
	payload := []byte(`{"id": "evt_1"}`)
	signedAt := time.Now().Add(-6 * time.Minute)
	header := signature.SignTimestamped(payload, testSecret, signedAt)

	err := VerifyWebhookSignature(payload, header, testSecret, WithSignatureTolerance(10*time.Minute))
	if err != nil {
		t.Errorf("VerifyWebhookSignature() error = %v, want nil with widened tolerance", err)
	}
}

func TestVerifyWebhookSignature_FixedClock(t *testing.T) {
	payload := []byte(`{"id": "evt_1"}`)
	signedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	header := signature.SignTimestamped(payload, testSecret, signedAt)

	clock := func() time.Time { return signedAt.Add(signature.DefaultTolerance) }
	if err := VerifyWebhookSignature(payload, header, testSecret, withSignatureClock(clock)); err != nil {
		t.Errorf("signature exactly at tolerance should verify, got %v", err)
	}

	clock = func() time.Time { return signedAt.Add(signature.DefaultTolerance + time.Second) }
	if err := VerifyWebhookSignature(payload, header, testSecret, withSignatureClock(clock)); err == nil {
		t.Error("signature one second past tolerance should fail")
	}
}

func TestVerifyWebhookSignature_HexDigestScheme(t *testing.T) {
	payload := []byte(`{"id": "evt_1"}`)
	header := signature.SignHexDigest(payload, testSecret)

	err := VerifyWebhookSignature(payload, header, testSecret, WithSignatureScheme(SchemeHexDigest))
	if err != nil {
		t.Errorf("VerifyWebhookSignature() error = %v, want nil", err)
	}

	// The same header fails under the default timestamped scheme.
	if err := VerifyWebhookSignature(payload, header, testSecret); err == nil {
		t.Error("hex digest header must not verify under the timestamped scheme")
	}

	// Tampering fails under the hex digest scheme too.
	err = VerifyWebhookSignature([]byte(`{"id": "evt_FORGED"}`), header, testSecret, WithSignatureScheme(SchemeHexDigest))
	if err == nil {
		t.Error("expected error for tampered payload")
	}
}

func TestParseWebhookPayload(t *testing.T) {
	payload := []byte(`{"id": "evt_1", "event": "email.delivered", "timestamp": "2025-06-01T12:00:00Z", "data": {"emailId": "em_1"}}`)
	header := signature.SignTimestamped(payload, testSecret, time.Now())

	event, err := ParseWebhookPayload(payload, header, testSecret)
	if err != nil {
		t.Fatalf("ParseWebhookPayload() error = %v", err)
	}
	if event.ID != "evt_1" || event.Event != "email.delivered" {
		t.Errorf("event = %+v", event)
	}
	if event.Data["emailId"] != "em_1" {
		t.Errorf("Data = %v", event.Data)
	}
}

func TestParseWebhookPayload_BadSignatureNeverDecodes(t *testing.T) {
	payload := []byte(`{"id": "evt_1"}`)

	_, err := ParseWebhookPayload(payload, "t=123,v1=bogus", testSecret)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("err = %v, want ErrInvalidSignature", err)
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		t.Error("signature failures must never surface as ParseError")
	}
}

func TestParseWebhookPayload_InvalidJSONAfterValidSignature(t *testing.T) {
	payload := []byte(`not json at all`)
	header := signature.SignTimestamped(payload, testSecret, time.Now())

	_, err := ParseWebhookPayload(payload, header, testSecret)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T (%v)", err, err)
	}
}
