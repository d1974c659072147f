package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// SendEmailRequest is the current-generation POST /emails wire shape.
type SendEmailRequest struct {
	From           *AddressDTO       `json:"from,omitempty"`
	To             []AddressDTO      `json:"to"`
	CC             []AddressDTO      `json:"cc,omitempty"`
	BCC            []AddressDTO      `json:"bcc,omitempty"`
	ReplyTo        *AddressDTO       `json:"replyTo,omitempty"`
	Subject        string            `json:"subject"`
	HTMLBody       string            `json:"htmlBody,omitempty"`
	TextBody       string            `json:"textBody,omitempty"`
	TemplateID     string            `json:"templateId,omitempty"`
	Variables      map[string]any    `json:"variables,omitempty"`
	Attachments    []AttachmentDTO   `json:"attachments,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Headers        map[string]string `json:"headers,omitempty"`
	ScheduledFor   string            `json:"scheduledFor,omitempty"`
	IdempotencyKey string            `json:"idempotencyKey,omitempty"`
}

// LegacySendEmailRequest is the first-generation POST /emails wire shape:
// bare string addresses and html/text field names.
type LegacySendEmailRequest struct {
	From         string            `json:"from,omitempty"`
	To           []string          `json:"to"`
	CC           []string          `json:"cc,omitempty"`
	BCC          []string          `json:"bcc,omitempty"`
	ReplyTo      string            `json:"replyTo,omitempty"`
	Subject      string            `json:"subject"`
	HTML         string            `json:"html,omitempty"`
	Text         string            `json:"text,omitempty"`
	TemplateID   string            `json:"templateId,omitempty"`
	Variables    map[string]any    `json:"variables,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	ScheduledFor string            `json:"scheduledFor,omitempty"`
}

// AttachmentDTO is the wire form of an attachment; Content is base64.
type AttachmentDTO struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"contentType,omitempty"`
	ContentID   string `json:"contentId,omitempty"`
}

// EmailDTO is the wire form of an email record.
type EmailDTO struct {
	ID          string            `json:"id"`
	MessageID   string            `json:"messageId,omitempty"`
	Status      string            `json:"status"`
	From        AddressDTO        `json:"from"`
	To          []AddressDTO      `json:"to"`
	CC          []AddressDTO      `json:"cc,omitempty"`
	BCC         []AddressDTO      `json:"bcc,omitempty"`
	Subject     string            `json:"subject"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ScheduledAt *time.Time        `json:"scheduledAt,omitempty"`
	SentAt      *time.Time        `json:"sentAt,omitempty"`
	DeliveredAt *time.Time        `json:"deliveredAt,omitempty"`
	OpenedAt    *time.Time        `json:"openedAt,omitempty"`
	ClickedAt   *time.Time        `json:"clickedAt,omitempty"`
	BouncedAt   *time.Time        `json:"bouncedAt,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// EmailEventDTO is one entry of an email's delivery event history.
type EmailEventDTO struct {
	ID        string         `json:"id"`
	EmailID   string         `json:"emailId"`
	EventType string         `json:"eventType"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// BatchSendRequest wraps the batch endpoint payload.
type BatchSendRequest struct {
	Emails []SendEmailRequest `json:"emails"`
}

// LegacyBatchSendRequest is the first-generation batch payload.
type LegacyBatchSendRequest struct {
	Emails []LegacySendEmailRequest `json:"emails"`
}

// BatchEmailResult is the per-item outcome of a batch send.
type BatchEmailResult struct {
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// BatchSendResponse is the batch endpoint response.
type BatchSendResponse struct {
	Sent    int                `json:"sent"`
	Failed  int                `json:"failed"`
	Results []BatchEmailResult `json:"results"`
}

// EmailListResponse is the GET /emails response.
type EmailListResponse struct {
	Emails []EmailDTO `json:"emails"`
	Pagination
}

// ListEmailsQuery filters GET /emails.
type ListEmailsQuery struct {
	Page   int
	Limit  int
	Status string
	Tag    string
}

// SendEmail sends one transactional email using the current wire shape.
// A non-empty idempotencyKey is forwarded as the Idempotency-Key header;
// its semantics belong to the server.
func (c *Client) SendEmail(ctx context.Context, req *SendEmailRequest, idempotencyKey string) (*EmailDTO, error) {
	var result EmailDTO
	r := &Request{Method: http.MethodPost, Path: "/emails", Body: req, Headers: idempotencyHeader(idempotencyKey)}
	if err := c.DoRequest(ctx, r, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendEmailLegacy sends one email using the first-generation wire shape.
func (c *Client) SendEmailLegacy(ctx context.Context, req *LegacySendEmailRequest, idempotencyKey string) (*EmailDTO, error) {
	var result EmailDTO
	r := &Request{Method: http.MethodPost, Path: "/emails", Body: req, Headers: idempotencyHeader(idempotencyKey)}
	if err := c.DoRequest(ctx, r, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendEmailBatch sends up to 100 emails in one call. The size cap is
// enforced by the public package before any network I/O.
func (c *Client) SendEmailBatch(ctx context.Context, req *BatchSendRequest) (*BatchSendResponse, error) {
	var result BatchSendResponse
	if err := c.Do(ctx, http.MethodPost, "/emails/batch", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendEmailBatchLegacy is SendEmailBatch for the first-generation shape.
func (c *Client) SendEmailBatchLegacy(ctx context.Context, req *LegacyBatchSendRequest) (*BatchSendResponse, error) {
	var result BatchSendResponse
	if err := c.Do(ctx, http.MethodPost, "/emails/batch", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetEmail retrieves an email by ID.
func (c *Client) GetEmail(ctx context.Context, emailID string) (*EmailDTO, error) {
	var result EmailDTO
	path := fmt.Sprintf("/emails/%s", url.PathEscape(emailID))
	if err := c.Do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelEmail cancels a scheduled email and returns its final record.
func (c *Client) CancelEmail(ctx context.Context, emailID string) (*EmailDTO, error) {
	var result EmailDTO
	path := fmt.Sprintf("/emails/%s", url.PathEscape(emailID))
	if err := c.Do(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListEmails lists recent emails.
func (c *Client) ListEmails(ctx context.Context, q ListEmailsQuery) (*EmailListResponse, error) {
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
	if q.Tag != "" {
		query.Set("tag", q.Tag)
	}

	var result EmailListResponse
	r := &Request{Method: http.MethodGet, Path: "/emails", Query: query}
	if err := c.DoRequest(ctx, r, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetEmailEvents retrieves the delivery event history for an email.
func (c *Client) GetEmailEvents(ctx context.Context, emailID string) ([]EmailEventDTO, error) {
	var result []EmailEventDTO
	path := fmt.Sprintf("/emails/%s/events", url.PathEscape(emailID))
	if err := c.Do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func idempotencyHeader(key string) map[string]string {
	if key == "" {
		return nil
	}
	return map[string]string{"Idempotency-Key": key}
}
