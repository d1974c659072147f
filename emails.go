package mailat

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/mailat/mailat-go/internal/api"
)

// maxBatchSize is the per-call cap on batch sends, enforced client-side
// before any network I/O.
const maxBatchSize = 100

// EmailStatus represents the delivery status of an email.
type EmailStatus string

// Email delivery statuses.
const (
	EmailStatusQueued     EmailStatus = "queued"
	EmailStatusSending    EmailStatus = "sending"
	EmailStatusSent       EmailStatus = "sent"
	EmailStatusDelivered  EmailStatus = "delivered"
	EmailStatusOpened     EmailStatus = "opened"
	EmailStatusClicked    EmailStatus = "clicked"
	EmailStatusBounced    EmailStatus = "bounced"
	EmailStatusComplained EmailStatus = "complained"
	EmailStatusFailed     EmailStatus = "failed"
	EmailStatusCancelled  EmailStatus = "cancelled"
)

// Email is a transactional email record.
type Email struct {
	// ID is the unique identifier for the email.
	ID string
	// MessageID is the SMTP Message-ID once assigned.
	MessageID string
	// Status is the current delivery status.
	Status EmailStatus
	// From is the sender address.
	From Address
	// To, CC and BCC are the recipients.
	To  []Address
	CC  []Address
	BCC []Address
	// Subject is the email subject line.
	Subject string
	// Tags are the caller-supplied categorization tags.
	Tags []string
	// Metadata is the caller-supplied custom metadata.
	Metadata map[string]string
	// ScheduledAt is when a scheduled email will be sent.
	ScheduledAt *time.Time
	// Delivery milestone timestamps; nil until reached.
	SentAt      *time.Time
	DeliveredAt *time.Time
	OpenedAt    *time.Time
	ClickedAt   *time.Time
	BouncedAt   *time.Time
	// CreatedAt is when the email was accepted by the API.
	CreatedAt time.Time
}

// EmailEvent is one entry of an email's delivery event history.
type EmailEvent = api.EmailEventDTO

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	// Filename is the name presented to the recipient.
	Filename string
	// Content is the raw file content; it is base64-encoded on the wire.
	Content []byte
	// ContentType is the MIME type, detected server-side when empty.
	ContentType string
	// ContentID references the attachment from HTML (cid:) when set.
	ContentID string
}

// SendEmailParams describes one outgoing email. Only To and Subject are
// required (Subject may be empty when TemplateID supplies it). Zero-valued
// optional fields are omitted from the request body entirely.
type SendEmailParams struct {
	From    Address
	To      Recipients
	CC      Recipients
	BCC     Recipients
	ReplyTo Address
	Subject string

	// HTML and Text are the message bodies; at least one is required
	// unless TemplateID is set.
	HTML string
	Text string

	// TemplateID selects a stored template; Variables fill its
	// placeholders.
	TemplateID string
	Variables  map[string]any

	Attachments []Attachment
	Tags        []string
	Metadata    map[string]string
	Headers     map[string]string

	// ScheduledFor defers sending until the given time.
	ScheduledFor *time.Time

	// IdempotencyKey lets the server deduplicate retried sends. Opaque to
	// the client; forwarded as the Idempotency-Key header.
	IdempotencyKey string
}

// ListEmailsParams filters Emails.List.
type ListEmailsParams struct {
	Page   int
	Limit  int
	Status EmailStatus
	Tag    string
}

// EmailList is one page of emails.
type EmailList struct {
	Emails []Email
	Page   int
	Limit  int
	Total  int
}

// BatchResult is the per-item outcome of a batch send.
type BatchResult = api.BatchEmailResult

// BatchSendResult summarizes a batch send.
type BatchSendResult struct {
	Sent    int
	Failed  int
	Results []BatchResult
}

// EmailsService sends and manages transactional emails.
type EmailsService struct {
	client *Client
}

// Send sends a single transactional email.
func (s *EmailsService) Send(ctx context.Context, params *SendEmailParams) (*Email, error) {
	var (
		dto *api.EmailDTO
		err error
	)
	if s.client.profile == ProfileV1 {
		dto, err = s.client.api.SendEmailLegacy(ctx, legacySendRequest(params), params.IdempotencyKey)
	} else {
		dto, err = s.client.api.SendEmail(ctx, sendRequest(params), params.IdempotencyKey)
	}
	if err != nil {
		return nil, wrapError(err)
	}
	return emailFromDTO(dto), nil
}

// SendBatch sends up to 100 emails in one call. Larger batches are rejected
// client-side with a ValidationError matching ErrBatchTooLarge, before any
// network I/O. The server reports a per-item result list; a batch is never
// partially retried by the client.
func (s *EmailsService) SendBatch(ctx context.Context, batch []*SendEmailParams) (*BatchSendResult, error) {
	if len(batch) > maxBatchSize {
		return nil, &ValidationError{Message: "batch size cannot exceed 100 emails"}
	}

	var (
		resp *api.BatchSendResponse
		err  error
	)
	if s.client.profile == ProfileV1 {
		req := &api.LegacyBatchSendRequest{Emails: make([]api.LegacySendEmailRequest, len(batch))}
		for i, p := range batch {
			req.Emails[i] = *legacySendRequest(p)
		}
		resp, err = s.client.api.SendEmailBatchLegacy(ctx, req)
	} else {
		req := &api.BatchSendRequest{Emails: make([]api.SendEmailRequest, len(batch))}
		for i, p := range batch {
			req.Emails[i] = *sendRequest(p)
		}
		resp, err = s.client.api.SendEmailBatch(ctx, req)
	}
	if err != nil {
		return nil, wrapError(err)
	}
	return &BatchSendResult{Sent: resp.Sent, Failed: resp.Failed, Results: resp.Results}, nil
}

// Get retrieves an email by ID.
func (s *EmailsService) Get(ctx context.Context, emailID string) (*Email, error) {
	dto, err := s.client.api.GetEmail(ctx, emailID)
	if err != nil {
		return nil, wrapError(err)
	}
	return emailFromDTO(dto), nil
}

// Cancel cancels a scheduled email. Fails once the email has left the
// queued state.
func (s *EmailsService) Cancel(ctx context.Context, emailID string) (*Email, error) {
	dto, err := s.client.api.CancelEmail(ctx, emailID)
	if err != nil {
		return nil, wrapError(err)
	}
	return emailFromDTO(dto), nil
}

// List lists recent emails.
func (s *EmailsService) List(ctx context.Context, params ListEmailsParams) (*EmailList, error) {
	resp, err := s.client.api.ListEmails(ctx, api.ListEmailsQuery{
		Page:   params.Page,
		Limit:  params.Limit,
		Status: string(params.Status),
		Tag:    params.Tag,
	})
	if err != nil {
		return nil, wrapError(err)
	}

	list := &EmailList{
		Emails: make([]Email, len(resp.Emails)),
		Page:   resp.Page,
		Limit:  resp.Limit,
		Total:  resp.Total,
	}
	for i := range resp.Emails {
		list.Emails[i] = *emailFromDTO(&resp.Emails[i])
	}
	return list, nil
}

// GetEvents retrieves the delivery event history for an email.
func (s *EmailsService) GetEvents(ctx context.Context, emailID string) ([]EmailEvent, error) {
	events, err := s.client.api.GetEmailEvents(ctx, emailID)
	if err != nil {
		return nil, wrapError(err)
	}
	return events, nil
}

// SendWithTemplate sends an email rendered from a stored template. The
// subject comes from the template.
func (s *EmailsService) SendWithTemplate(ctx context.Context, templateID string, to Recipients, variables map[string]any) (*Email, error) {
	return s.Send(ctx, &SendEmailParams{
		To:         to,
		TemplateID: templateID,
		Variables:  variables,
	})
}

// sendRequest builds the current-generation wire payload.
func sendRequest(p *SendEmailParams) *api.SendEmailRequest {
	req := &api.SendEmailRequest{
		From:       addressToWire(p.From),
		To:         addressesToWire(p.To),
		CC:         addressesToWire(p.CC),
		BCC:        addressesToWire(p.BCC),
		ReplyTo:    addressToWire(p.ReplyTo),
		Subject:    p.Subject,
		HTMLBody:   p.HTML,
		TextBody:   p.Text,
		TemplateID: p.TemplateID,
		Variables:  p.Variables,
		Tags:       p.Tags,
		Metadata:   p.Metadata,
		Headers:    p.Headers,
	}
	if len(p.Attachments) > 0 {
		req.Attachments = make([]api.AttachmentDTO, len(p.Attachments))
		for i, a := range p.Attachments {
			req.Attachments[i] = api.AttachmentDTO{
				Filename:    a.Filename,
				Content:     base64.StdEncoding.EncodeToString(a.Content),
				ContentType: a.ContentType,
				ContentID:   a.ContentID,
			}
		}
	}
	if p.ScheduledFor != nil {
		req.ScheduledFor = p.ScheduledFor.Format(time.RFC3339)
	}
	return req
}

// legacySendRequest builds the first-generation wire payload. Attachments
// and custom headers are not part of that generation and are dropped.
func legacySendRequest(p *SendEmailParams) *api.LegacySendEmailRequest {
	req := &api.LegacySendEmailRequest{
		From:       p.From.String(),
		To:         addressesToStrings(p.To),
		CC:         addressesToStrings(p.CC),
		BCC:        addressesToStrings(p.BCC),
		ReplyTo:    p.ReplyTo.String(),
		Subject:    p.Subject,
		HTML:       p.HTML,
		Text:       p.Text,
		TemplateID: p.TemplateID,
		Variables:  p.Variables,
		Tags:       p.Tags,
		Metadata:   p.Metadata,
	}
	if p.From.Email == "" {
		req.From = ""
	}
	if p.ReplyTo.Email == "" {
		req.ReplyTo = ""
	}
	if p.ScheduledFor != nil {
		req.ScheduledFor = p.ScheduledFor.Format(time.RFC3339)
	}
	return req
}

// emailFromDTO converts a wire email record to the public type.
func emailFromDTO(dto *api.EmailDTO) *Email {
	if dto == nil {
		return nil
	}
	return &Email{
		ID:          dto.ID,
		MessageID:   dto.MessageID,
		Status:      EmailStatus(dto.Status),
		From:        addressFromWire(dto.From),
		To:          addressesFromWire(dto.To),
		CC:          addressesFromWire(dto.CC),
		BCC:         addressesFromWire(dto.BCC),
		Subject:     dto.Subject,
		Tags:        dto.Tags,
		Metadata:    dto.Metadata,
		ScheduledAt: dto.ScheduledAt,
		SentAt:      dto.SentAt,
		DeliveredAt: dto.DeliveredAt,
		OpenedAt:    dto.OpenedAt,
		ClickedAt:   dto.ClickedAt,
		BouncedAt:   dto.BouncedAt,
		CreatedAt:   dto.CreatedAt,
	}
}
