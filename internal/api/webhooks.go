package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// WebhookDTO is the wire form of a webhook endpoint.
type WebhookDTO struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	URL             string     `json:"url"`
	Events          []string   `json:"events"`
	Secret          string     `json:"secret,omitempty"`
	Active          bool       `json:"active"`
	SuccessCount    int        `json:"successCount"`
	FailureCount    int        `json:"failureCount"`
	LastTriggeredAt *time.Time `json:"lastTriggeredAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CreateWebhookRequest is the POST /webhooks payload.
type CreateWebhookRequest struct {
	Name   string   `json:"name"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

// UpdateWebhookRequest is the PUT /webhooks/{id} payload.
type UpdateWebhookRequest struct {
	Name   *string   `json:"name,omitempty"`
	URL    *string   `json:"url,omitempty"`
	Events *[]string `json:"events,omitempty"`
	Active *bool     `json:"active,omitempty"`
}

// RotateSecretResponse is the POST /webhooks/{id}/rotate-secret response.
type RotateSecretResponse struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

// TestWebhookResponse is the POST /webhooks/{id}/test response.
type TestWebhookResponse struct {
	Success      bool   `json:"success"`
	StatusCode   int    `json:"statusCode"`
	ResponseTime int    `json:"responseTimeMs"`
	Error        string `json:"error,omitempty"`
}

// WebhookCallDTO is one webhook delivery attempt.
type WebhookCallDTO struct {
	ID          string     `json:"id"`
	Event       string     `json:"event"`
	URL         string     `json:"url"`
	StatusCode  int        `json:"statusCode"`
	Success     bool       `json:"success"`
	Payload     string     `json:"payload"`
	Response    string     `json:"response,omitempty"`
	Attempts    int        `json:"attempts"`
	LastAttempt time.Time  `json:"lastAttempt"`
	NextRetry   *time.Time `json:"nextRetry,omitempty"`
}

// WebhookPayload is the body of an inbound webhook callback, decoded after
// its signature has been verified.
type WebhookPayload struct {
	ID        string         `json:"id"`
	Event     string         `json:"event"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// ListWebhookCallsQuery filters GET /webhooks/{id}/calls.
type ListWebhookCallsQuery struct {
	Page   int
	Limit  int
	Status string
}

// CreateWebhook registers a webhook endpoint.
func (c *Client) CreateWebhook(ctx context.Context, req *CreateWebhookRequest) (*WebhookDTO, error) {
	var result WebhookDTO
	if err := c.Do(ctx, http.MethodPost, "/webhooks", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetWebhook retrieves a webhook by ID.
func (c *Client) GetWebhook(ctx context.Context, webhookID string) (*WebhookDTO, error) {
	var result WebhookDTO
	path := fmt.Sprintf("/webhooks/%s", url.PathEscape(webhookID))
	if err := c.Do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateWebhook applies a partial update to a webhook.
func (c *Client) UpdateWebhook(ctx context.Context, webhookID string, req *UpdateWebhookRequest) (*WebhookDTO, error) {
	var result WebhookDTO
	path := fmt.Sprintf("/webhooks/%s", url.PathEscape(webhookID))
	if err := c.Do(ctx, http.MethodPut, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteWebhook removes a webhook.
func (c *Client) DeleteWebhook(ctx context.Context, webhookID string) error {
	path := fmt.Sprintf("/webhooks/%s", url.PathEscape(webhookID))
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// ListWebhooks lists all webhooks.
func (c *Client) ListWebhooks(ctx context.Context) ([]WebhookDTO, error) {
	var result []WebhookDTO
	if err := c.Do(ctx, http.MethodGet, "/webhooks", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// RotateWebhookSecret generates a new signing secret. The previous secret
// stops validating immediately.
func (c *Client) RotateWebhookSecret(ctx context.Context, webhookID string) (*RotateSecretResponse, error) {
	var result RotateSecretResponse
	path := fmt.Sprintf("/webhooks/%s/rotate-secret", url.PathEscape(webhookID))
	if err := c.Do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TestWebhook asks the server to deliver a test event.
func (c *Client) TestWebhook(ctx context.Context, webhookID string) (*TestWebhookResponse, error) {
	var result TestWebhookResponse
	path := fmt.Sprintf("/webhooks/%s/test", url.PathEscape(webhookID))
	if err := c.Do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListWebhookCalls retrieves recent delivery attempts for a webhook.
func (c *Client) ListWebhookCalls(ctx context.Context, webhookID string, q ListWebhookCallsQuery) ([]WebhookCallDTO, error) {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Status != "" {
		query.Set("status", q.Status)
	}

	var result []WebhookCallDTO
	path := fmt.Sprintf("/webhooks/%s/calls", url.PathEscape(webhookID))
	r := &Request{Method: http.MethodGet, Path: path, Query: query}
	if err := c.DoRequest(ctx, r, &result); err != nil {
		return nil, err
	}
	return result, nil
}
