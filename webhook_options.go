package mailat

import "github.com/mailat/mailat-go/internal/api"

// webhookUpdateConfig holds configuration for updating a webhook.
type webhookUpdateConfig struct {
	name   *string
	url    *string
	events []WebhookEventType
	active *bool
}

// WebhookUpdateOption configures webhook updates.
type WebhookUpdateOption func(*webhookUpdateConfig)

// WithUpdateName updates the webhook name.
func WithUpdateName(name string) WebhookUpdateOption {
	return func(c *webhookUpdateConfig) {
		c.name = &name
	}
}

// WithUpdateURL updates the webhook delivery URL.
func WithUpdateURL(url string) WebhookUpdateOption {
	return func(c *webhookUpdateConfig) {
		c.url = &url
	}
}

// WithUpdateEvents replaces the subscribed event types.
func WithUpdateEvents(events ...WebhookEventType) WebhookUpdateOption {
	return func(c *webhookUpdateConfig) {
		c.events = events
	}
}

// WithUpdateActive enables or disables deliveries.
func WithUpdateActive(active bool) WebhookUpdateOption {
	return func(c *webhookUpdateConfig) {
		c.active = &active
	}
}

// buildWebhookUpdateRequest builds an API request from update options.
func buildWebhookUpdateRequest(opts []WebhookUpdateOption) *api.UpdateWebhookRequest {
	cfg := &webhookUpdateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	req := &api.UpdateWebhookRequest{
		Name:   cfg.name,
		URL:    cfg.url,
		Active: cfg.active,
	}

	if cfg.events != nil {
		events := make([]string, len(cfg.events))
		for i, e := range cfg.events {
			events[i] = string(e)
		}
		req.Events = &events
	}

	return req
}
