package mailat

import (
	"encoding/json"
	"time"

	"github.com/mailat/mailat-go/internal/api"
	"github.com/mailat/mailat-go/internal/signature"
)

// SignatureScheme selects how an inbound webhook signature header is
// interpreted.
type SignatureScheme int

const (
	// SchemeTimestamped verifies "t=<unix>,v1=<hex>" headers, where the hex
	// digest is HMAC-SHA256 over "<t>.<payload>". Signatures older or newer
	// than the tolerance are rejected. This is the default.
	SchemeTimestamped SignatureScheme = iota
	// SchemeHexDigest verifies "sha256=<hex>" headers (bare hex is also
	// accepted), where the digest is HMAC-SHA256 over the raw payload.
	// There is no replay window.
	SchemeHexDigest
)

// WebhookPayload is a decoded webhook event body.
type WebhookPayload = api.WebhookPayload

// verifyConfig holds configuration for signature verification.
type verifyConfig struct {
	scheme    SignatureScheme
	tolerance time.Duration
	now       func() time.Time
}

// VerifyOption configures webhook signature verification.
type VerifyOption func(*verifyConfig)

// WithSignatureScheme selects the signature scheme. Default:
// SchemeTimestamped.
func WithSignatureScheme(scheme SignatureScheme) VerifyOption {
	return func(c *verifyConfig) {
		c.scheme = scheme
	}
}

// WithSignatureTolerance sets the maximum allowed age of a timestamped
// signature, in either direction. Default: 5 minutes. Ignored by
// SchemeHexDigest.
func WithSignatureTolerance(tolerance time.Duration) VerifyOption {
	return func(c *verifyConfig) {
		c.tolerance = tolerance
	}
}

// withSignatureClock overrides the verification clock in tests.
func withSignatureClock(now func() time.Time) VerifyOption {
	return func(c *verifyConfig) {
		c.now = now
	}
}

// VerifyWebhookSignature checks a webhook signature header against the raw
// request body. It returns nil when the signature is valid, and an
// AuthenticationError matching ErrInvalidSignature otherwise. A malformed or
// empty header is a verification failure, never a panic or a parse error.
//
// payload must be the raw body bytes, read before any JSON decoding.
func VerifyWebhookSignature(payload []byte, header, secret string, opts ...VerifyOption) error {
	cfg := &verifyConfig{
		scheme:    SchemeTimestamped,
		tolerance: signature.DefaultTolerance,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	v := &signature.Verifier{
		Secret:    secret,
		Tolerance: cfg.tolerance,
		Now:       cfg.now,
	}

	var ok bool
	switch cfg.scheme {
	case SchemeHexDigest:
		ok = v.VerifyHexDigest(payload, header)
	default:
		ok = v.VerifyTimestamped(payload, header)
	}
	if !ok {
		return &AuthenticationError{Message: "invalid webhook signature"}
	}
	return nil
}

// ParseWebhookPayload verifies a webhook signature and decodes the event
// body. The signature is checked first; the body is never decoded when
// verification fails. A body that is not valid JSON after a valid signature
// returns a ParseError.
func ParseWebhookPayload(payload []byte, header, secret string, opts ...VerifyOption) (*WebhookPayload, error) {
	if err := VerifyWebhookSignature(payload, header, secret, opts...); err != nil {
		return nil, err
	}

	var event WebhookPayload
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &event, nil
}
