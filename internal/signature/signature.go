// Package signature implements webhook signature verification for the
// mailat API. Two schemes exist: the timestamped scheme used by current
// webhook deliveries ("t=<unix>,v1=<hex>") with a replay-protection window,
// and the older bare digest scheme ("sha256=<hex>") without one.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance is the maximum allowed clock drift between signing and
// verification for the timestamped scheme.
const DefaultTolerance = 5 * time.Minute

// hexDigestPrefix marks the older signature scheme.
const hexDigestPrefix = "sha256="

// Verifier checks webhook signatures against a shared secret.
// The zero Tolerance means DefaultTolerance; Now is overridable for tests.
type Verifier struct {
	Secret    string
	Tolerance time.Duration
	Now       func() time.Time
}

// VerifyTimestamped reports whether header is a valid timestamped signature
// ("t=<unix>,v1=<hex>") over payload. Malformed headers and stale timestamps
// return false; this function never fails hard.
func (v *Verifier) VerifyTimestamped(payload []byte, header string) bool {
	parts := parseHeader(header)

	timestampStr, ok := parts["t"]
	if !ok {
		return false
	}
	provided, ok := parts["v1"]
	if !ok {
		return false
	}

	timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
	if err != nil {
		return false
	}

	// Replay protection: reject before bothering with the digest.
	tolerance := v.Tolerance
	if tolerance == 0 {
		tolerance = DefaultTolerance
	}
	now := v.now().Unix()
	diff := now - timestamp
	if diff < 0 {
		diff = -diff
	}
	if diff > int64(tolerance.Seconds()) {
		return false
	}

	expected := computeDigest(v.Secret, signedPayload(timestamp, payload))
	return hmac.Equal([]byte(provided), []byte(expected))
}

// VerifyHexDigest reports whether header is a valid bare digest signature
// ("sha256=<hex>", prefix optional) over payload. No replay protection.
func (v *Verifier) VerifyHexDigest(payload []byte, header string) bool {
	provided := strings.TrimPrefix(header, hexDigestPrefix)
	if provided == "" {
		return false
	}
	expected := computeDigest(v.Secret, payload)
	return hmac.Equal([]byte(provided), []byte(expected))
}

func (v *Verifier) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// SignTimestamped produces a timestamped signature header over payload,
// signed at t. Used by tests and the CLI self-check.
func SignTimestamped(payload []byte, secret string, t time.Time) string {
	ts := t.Unix()
	digest := computeDigest(secret, signedPayload(ts, payload))
	return fmt.Sprintf("t=%d,v1=%s", ts, digest)
}

// SignHexDigest produces a bare digest signature header over payload.
func SignHexDigest(payload []byte, secret string) string {
	return hexDigestPrefix + computeDigest(secret, payload)
}

// parseHeader splits a comma-separated list of key=value pairs, splitting
// each pair on the first "=" only.
func parseHeader(header string) map[string]string {
	parts := make(map[string]string)
	for _, part := range strings.Split(header, ",") {
		if kv := strings.SplitN(part, "=", 2); len(kv) == 2 {
			parts[kv[0]] = kv[1]
		}
	}
	return parts
}

func signedPayload(timestamp int64, payload []byte) []byte {
	return []byte(fmt.Sprintf("%d.%s", timestamp, payload))
}

func computeDigest(secret string, message []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(message)
	return hex.EncodeToString(h.Sum(nil))
}
