package mailat

import (
	"github.com/mailat/mailat-go/internal/api"
)

// Version is the SDK version reported in the User-Agent header.
const Version = "1.0.0"

// Client is the mailat.co API client. One client owns one pooled HTTP
// connection, reused across calls and released by Close. A client is safe
// for sequential use; concurrent callers should use one client per
// goroutine or provide their own synchronization.
type Client struct {
	api     *api.Client
	profile Profile

	// Resource namespaces
	Emails    *EmailsService
	Templates *TemplatesService
	Webhooks  *WebhooksService
	Contacts  *ContactsService
	Campaigns *CampaignsService
	Domains   *DomainsService
}

// New creates a mailat.co API client. The API key is required; an empty key
// returns a ConfigurationError matching ErrMissingAPIKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL:    defaultBaseURL,
		timeout:    defaultTimeout,
		profile:    ProfileV2,
		userAgent:  "mailat-go/" + Version,
		maxRetries: api.DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := api.NewClient(api.Config{
		APIKey:     apiKey,
		BaseURL:    cfg.baseURL,
		Timeout:    cfg.timeout,
		MaxRetries: cfg.maxRetries,
		HTTPClient: cfg.httpClient,
		UserAgent:  cfg.userAgent,
	})
	if err != nil {
		return nil, wrapError(err)
	}

	c := &Client{
		api:     apiClient,
		profile: cfg.profile,
	}
	c.Emails = &EmailsService{client: c}
	c.Templates = &TemplatesService{client: c}
	c.Webhooks = &WebhooksService{client: c}
	c.Contacts = &ContactsService{client: c}
	c.Campaigns = &CampaignsService{client: c}
	c.Domains = &DomainsService{client: c}

	return c, nil
}

// Close releases the underlying connection pool. Calls made after Close
// fail with ErrClientClosed.
func (c *Client) Close() {
	c.api.Close()
}
