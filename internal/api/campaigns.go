package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// CampaignDTO is the wire form of a marketing campaign.
type CampaignDTO struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Subject     string           `json:"subject"`
	Status      string           `json:"status"`
	ListIDs     []string         `json:"listIds"`
	TemplateID  string           `json:"templateId,omitempty"`
	HTMLContent string           `json:"htmlContent,omitempty"`
	TextContent string           `json:"textContent,omitempty"`
	FromName    string           `json:"fromName"`
	FromEmail   string           `json:"fromEmail"`
	ReplyTo     string           `json:"replyTo,omitempty"`
	ScheduledAt *time.Time       `json:"scheduledAt,omitempty"`
	SentAt      *time.Time       `json:"sentAt,omitempty"`
	Stats       CampaignStatsDTO `json:"stats"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// CampaignStatsDTO is the wire form of campaign statistics.
type CampaignStatsDTO struct {
	Total        int `json:"total"`
	Sent         int `json:"sent"`
	Delivered    int `json:"delivered"`
	Opened       int `json:"opened"`
	Clicked      int `json:"clicked"`
	Bounced      int `json:"bounced"`
	Unsubscribed int `json:"unsubscribed"`
	Complained   int `json:"complained"`
}

// CreateCampaignRequest is the POST /campaigns payload.
type CreateCampaignRequest struct {
	Name        string   `json:"name"`
	Subject     string   `json:"subject"`
	ListIDs     []string `json:"listIds"`
	FromName    string   `json:"fromName"`
	FromEmail   string   `json:"fromEmail"`
	HTMLContent string   `json:"htmlContent,omitempty"`
	TextContent string   `json:"textContent,omitempty"`
	TemplateID  string   `json:"templateId,omitempty"`
	ReplyTo     string   `json:"replyTo,omitempty"`
}

// UpdateCampaignRequest is the PUT /campaigns/{id} payload.
type UpdateCampaignRequest struct {
	Name        *string `json:"name,omitempty"`
	Subject     *string `json:"subject,omitempty"`
	HTMLContent *string `json:"htmlContent,omitempty"`
	TextContent *string `json:"textContent,omitempty"`
}

// CampaignListResponse is the GET /campaigns response.
type CampaignListResponse struct {
	Campaigns []CampaignDTO `json:"campaigns"`
	Pagination
}

// ScheduleCampaignRequest is the POST /campaigns/{id}/schedule payload.
type ScheduleCampaignRequest struct {
	ScheduledAt string `json:"scheduledAt"`
}

// PreviewCampaignRequest is the POST /campaigns/{id}/preview payload.
type PreviewCampaignRequest struct {
	ContactID string `json:"contactId,omitempty"`
}

// PreviewCampaignResponse carries the rendered campaign content.
type PreviewCampaignResponse struct {
	Subject  string `json:"subject"`
	HTMLBody string `json:"htmlBody"`
}

// TestSendCampaignRequest is the POST /campaigns/{id}/test payload.
type TestSendCampaignRequest struct {
	Emails []string `json:"emails"`
}

// TestSendCampaignResponse summarizes a campaign test send.
type TestSendCampaignResponse struct {
	Sent int `json:"sent"`
}

// ListCampaignsQuery filters GET /campaigns.
type ListCampaignsQuery struct {
	Page   int
	Limit  int
	Status string
}

// CreateCampaign creates a campaign in draft status.
func (c *Client) CreateCampaign(ctx context.Context, req *CreateCampaignRequest) (*CampaignDTO, error) {
	var result CampaignDTO
	if err := c.Do(ctx, http.MethodPost, "/campaigns", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCampaign retrieves a campaign by ID.
func (c *Client) GetCampaign(ctx context.Context, campaignID string) (*CampaignDTO, error) {
	var result CampaignDTO
	path := fmt.Sprintf("/campaigns/%s", url.PathEscape(campaignID))
	if err := c.Do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateCampaign applies a partial update to a draft campaign.
func (c *Client) UpdateCampaign(ctx context.Context, campaignID string, req *UpdateCampaignRequest) (*CampaignDTO, error) {
	var result CampaignDTO
	path := fmt.Sprintf("/campaigns/%s", url.PathEscape(campaignID))
	if err := c.Do(ctx, http.MethodPut, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteCampaign deletes a campaign.
func (c *Client) DeleteCampaign(ctx context.Context, campaignID string) error {
	path := fmt.Sprintf("/campaigns/%s", url.PathEscape(campaignID))
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// ListCampaigns lists campaigns.
func (c *Client) ListCampaigns(ctx context.Context, q ListCampaignsQuery) (*CampaignListResponse, error) {
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

	var result CampaignListResponse
	r := &Request{Method: http.MethodGet, Path: "/campaigns", Query: query}
	if err := c.DoRequest(ctx, r, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// campaignAction posts to a campaign lifecycle endpoint and returns the
// updated campaign.
func (c *Client) campaignAction(ctx context.Context, campaignID, action string, body any) (*CampaignDTO, error) {
	var result CampaignDTO
	path := fmt.Sprintf("/campaigns/%s/%s", url.PathEscape(campaignID), action)
	if err := c.Do(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendCampaign starts sending immediately.
func (c *Client) SendCampaign(ctx context.Context, campaignID string) (*CampaignDTO, error) {
	return c.campaignAction(ctx, campaignID, "send", nil)
}

// ScheduleCampaign schedules sending for a future time.
func (c *Client) ScheduleCampaign(ctx context.Context, campaignID string, req *ScheduleCampaignRequest) (*CampaignDTO, error) {
	return c.campaignAction(ctx, campaignID, "schedule", req)
}

// PauseCampaign pauses a sending campaign.
func (c *Client) PauseCampaign(ctx context.Context, campaignID string) (*CampaignDTO, error) {
	return c.campaignAction(ctx, campaignID, "pause", nil)
}

// ResumeCampaign resumes a paused campaign.
func (c *Client) ResumeCampaign(ctx context.Context, campaignID string) (*CampaignDTO, error) {
	return c.campaignAction(ctx, campaignID, "resume", nil)
}

// CancelCampaign cancels a scheduled or sending campaign.
func (c *Client) CancelCampaign(ctx context.Context, campaignID string) (*CampaignDTO, error) {
	return c.campaignAction(ctx, campaignID, "cancel", nil)
}

// GetCampaignStats retrieves delivery statistics for a campaign.
func (c *Client) GetCampaignStats(ctx context.Context, campaignID string) (*CampaignStatsDTO, error) {
	var result CampaignStatsDTO
	path := fmt.Sprintf("/campaigns/%s/stats", url.PathEscape(campaignID))
	if err := c.Do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PreviewCampaign renders the campaign content, optionally personalized
// for one contact.
func (c *Client) PreviewCampaign(ctx context.Context, campaignID string, req *PreviewCampaignRequest) (*PreviewCampaignResponse, error) {
	var result PreviewCampaignResponse
	path := fmt.Sprintf("/campaigns/%s/preview", url.PathEscape(campaignID))
	if err := c.Do(ctx, http.MethodPost, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TestSendCampaign delivers the campaign to a list of test addresses.
func (c *Client) TestSendCampaign(ctx context.Context, campaignID string, req *TestSendCampaignRequest) (*TestSendCampaignResponse, error) {
	var result TestSendCampaignResponse
	path := fmt.Sprintf("/campaigns/%s/test", url.PathEscape(campaignID))
	if err := c.Do(ctx, http.MethodPost, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
