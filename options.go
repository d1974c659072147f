package mailat

import (
	"net/http"
	"time"
)

// Profile selects which generation of the mailat wire protocol the client
// speaks. The two generations accept different request field names and
// address encodings; response shapes are shared.
type Profile string

const (
	// ProfileV1 is the first-generation wire shape: bare string addresses
	// and html/text body fields.
	ProfileV1 Profile = "v1"
	// ProfileV2 is the current wire shape: object addresses and
	// htmlBody/textBody body fields. This is the default.
	ProfileV2 Profile = "v2"
)

const (
	defaultBaseURL = "https://api.mailat.co/api/v1"
	defaultTimeout = 30 * time.Second
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	profile    Profile
	userAgent  string
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the API base URL. Trailing slashes are trimmed.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. When set, WithTimeout is
// ignored; configure the timeout on the provided client instead.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-attempt request timeout. Default: 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithMaxRetries bounds retry attempts after the first try. Retries cover
// network failures, timeouts, and HTTP 429 responses. Default: 3.
// A negative value disables retries.
func WithMaxRetries(count int) Option {
	return func(c *clientConfig) {
		c.maxRetries = count
	}
}

// WithProfile selects the wire protocol generation. Default: ProfileV2.
func WithProfile(profile Profile) Option {
	return func(c *clientConfig) {
		c.profile = profile
	}
}

// WithUserAgent overrides the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}
