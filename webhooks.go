package mailat

import (
	"context"
	"time"

	"github.com/mailat/mailat-go/internal/api"
)

// WebhookEventType identifies an event class a webhook can subscribe to.
type WebhookEventType string

// Webhook event types.
const (
	EventEmailQueued         WebhookEventType = "email.queued"
	EventEmailSent           WebhookEventType = "email.sent"
	EventEmailDelivered      WebhookEventType = "email.delivered"
	EventEmailOpened         WebhookEventType = "email.opened"
	EventEmailClicked        WebhookEventType = "email.clicked"
	EventEmailBounced        WebhookEventType = "email.bounced"
	EventEmailComplained     WebhookEventType = "email.complained"
	EventEmailFailed         WebhookEventType = "email.failed"
	EventContactSubscribed   WebhookEventType = "contact.subscribed"
	EventContactUnsubscribed WebhookEventType = "contact.unsubscribed"
	EventCampaignCompleted   WebhookEventType = "campaign.completed"
)

// Webhook is a registered webhook endpoint.
type Webhook struct {
	// ID is the unique identifier for the webhook.
	ID string
	// Name is a human-readable label.
	Name string
	// URL is the endpoint events are delivered to.
	URL string
	// Events are the subscribed event types.
	Events []WebhookEventType
	// Secret is the signing secret. The API returns it only on creation
	// and rotation; otherwise it is empty.
	Secret string
	// Active reports whether deliveries are enabled.
	Active bool
	// SuccessCount and FailureCount are lifetime delivery counters.
	SuccessCount int
	FailureCount int
	// LastTriggeredAt is the time of the most recent delivery attempt.
	LastTriggeredAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WebhookTestResult is the outcome of a server-initiated test delivery.
type WebhookTestResult = api.TestWebhookResponse

// WebhookCall is one webhook delivery attempt.
type WebhookCall = api.WebhookCallDTO

// ListWebhookCallsParams filters Webhooks.ListCalls.
type ListWebhookCallsParams struct {
	Page   int
	Limit  int
	Status string
}

// WebhooksService manages webhook endpoints.
type WebhooksService struct {
	client *Client
}

// Create registers a webhook endpoint subscribed to the given events. The
// returned Webhook carries the signing secret; store it, the API will not
// return it again.
func (s *WebhooksService) Create(ctx context.Context, name, url string, events ...WebhookEventType) (*Webhook, error) {
	dto, err := s.client.api.CreateWebhook(ctx, &api.CreateWebhookRequest{
		Name:   name,
		URL:    url,
		Events: eventsToStrings(events),
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return webhookFromDTO(dto), nil
}

// Get retrieves a webhook by ID.
func (s *WebhooksService) Get(ctx context.Context, webhookID string) (*Webhook, error) {
	dto, err := s.client.api.GetWebhook(ctx, webhookID)
	if err != nil {
		return nil, wrapError(err)
	}
	return webhookFromDTO(dto), nil
}

// Update applies a partial update to a webhook. Only the aspects named by
// the given options change.
func (s *WebhooksService) Update(ctx context.Context, webhookID string, opts ...WebhookUpdateOption) (*Webhook, error) {
	dto, err := s.client.api.UpdateWebhook(ctx, webhookID, buildWebhookUpdateRequest(opts))
	if err != nil {
		return nil, wrapError(err)
	}
	return webhookFromDTO(dto), nil
}

// Delete removes a webhook.
func (s *WebhooksService) Delete(ctx context.Context, webhookID string) error {
	return wrapError(s.client.api.DeleteWebhook(ctx, webhookID))
}

// List lists all webhooks.
func (s *WebhooksService) List(ctx context.Context) ([]*Webhook, error) {
	dtos, err := s.client.api.ListWebhooks(ctx)
	if err != nil {
		return nil, wrapError(err)
	}
	webhooks := make([]*Webhook, len(dtos))
	for i := range dtos {
		webhooks[i] = webhookFromDTO(&dtos[i])
	}
	return webhooks, nil
}

// Enable turns webhook deliveries on.
func (s *WebhooksService) Enable(ctx context.Context, webhookID string) (*Webhook, error) {
	return s.Update(ctx, webhookID, WithUpdateActive(true))
}

// Disable turns webhook deliveries off without deleting the webhook.
func (s *WebhooksService) Disable(ctx context.Context, webhookID string) (*Webhook, error) {
	return s.Update(ctx, webhookID, WithUpdateActive(false))
}

// RotateSecret generates a new signing secret for a webhook. Deliveries
// signed with the previous secret stop validating immediately.
func (s *WebhooksService) RotateSecret(ctx context.Context, webhookID string) (string, error) {
	resp, err := s.client.api.RotateWebhookSecret(ctx, webhookID)
	if err != nil {
		return "", wrapError(err)
	}
	return resp.Secret, nil
}

// Test asks the server to deliver a test event to the webhook endpoint.
func (s *WebhooksService) Test(ctx context.Context, webhookID string) (*WebhookTestResult, error) {
	result, err := s.client.api.TestWebhook(ctx, webhookID)
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// ListCalls retrieves recent delivery attempts for a webhook.
func (s *WebhooksService) ListCalls(ctx context.Context, webhookID string, params ListWebhookCallsParams) ([]WebhookCall, error) {
	calls, err := s.client.api.ListWebhookCalls(ctx, webhookID, api.ListWebhookCallsQuery{
		Page:   params.Page,
		Limit:  params.Limit,
		Status: params.Status,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return calls, nil
}

// webhookFromDTO converts a wire webhook to the public type.
func webhookFromDTO(dto *api.WebhookDTO) *Webhook {
	if dto == nil {
		return nil
	}
	events := make([]WebhookEventType, len(dto.Events))
	for i, e := range dto.Events {
		events[i] = WebhookEventType(e)
	}
	return &Webhook{
		ID:              dto.ID,
		Name:            dto.Name,
		URL:             dto.URL,
		Events:          events,
		Secret:          dto.Secret,
		Active:          dto.Active,
		SuccessCount:    dto.SuccessCount,
		FailureCount:    dto.FailureCount,
		LastTriggeredAt: dto.LastTriggeredAt,
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
	}
}

func eventsToStrings(events []WebhookEventType) []string {
	if len(events) == 0 {
		return nil
	}
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = string(e)
	}
	return out
}
