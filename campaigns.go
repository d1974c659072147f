package mailat

import (
	"context"
	"time"

	"github.com/mailat/mailat-go/internal/api"
)

// CampaignStatus represents a campaign's lifecycle state.
type CampaignStatus string

// Campaign lifecycle states.
const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusSending   CampaignStatus = "sending"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusSent      CampaignStatus = "sent"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

// Campaign is a marketing campaign.
type Campaign = api.CampaignDTO

// CampaignStats holds delivery statistics for a campaign.
type CampaignStats = api.CampaignStatsDTO

// CampaignPreview is the rendered campaign content.
type CampaignPreview = api.PreviewCampaignResponse

// OpenRate returns opens as a fraction of delivered emails, 0 when nothing
// has been delivered yet.
func OpenRate(s *CampaignStats) float64 {
	if s.Delivered == 0 {
		return 0
	}
	return float64(s.Opened) / float64(s.Delivered)
}

// ClickRate returns clicks as a fraction of delivered emails, 0 when
// nothing has been delivered yet.
func ClickRate(s *CampaignStats) float64 {
	if s.Delivered == 0 {
		return 0
	}
	return float64(s.Clicked) / float64(s.Delivered)
}

// CreateCampaignParams describes a new campaign. Either TemplateID or
// HTML/Text content is required.
type CreateCampaignParams struct {
	Name       string
	Subject    string
	ListIDs    []string
	FromName   string
	FromEmail  string
	HTML       string
	Text       string
	TemplateID string
	ReplyTo    string
}

// UpdateCampaignParams is a partial update to a draft campaign. Nil fields
// are left unchanged.
type UpdateCampaignParams struct {
	Name    *string
	Subject *string
	HTML    *string
	Text    *string
}

// ListCampaignsParams filters Campaigns.List.
type ListCampaignsParams struct {
	Page   int
	Limit  int
	Status CampaignStatus
}

// CampaignPage is one page of campaigns.
type CampaignPage struct {
	Campaigns []Campaign
	Page      int
	Limit     int
	Total     int
}

// CampaignsService manages marketing campaigns.
type CampaignsService struct {
	client *Client
}

// Create creates a campaign in draft status.
func (s *CampaignsService) Create(ctx context.Context, params *CreateCampaignParams) (*Campaign, error) {
	campaign, err := s.client.api.CreateCampaign(ctx, &api.CreateCampaignRequest{
		Name:        params.Name,
		Subject:     params.Subject,
		ListIDs:     params.ListIDs,
		FromName:    params.FromName,
		FromEmail:   params.FromEmail,
		HTMLContent: params.HTML,
		TextContent: params.Text,
		TemplateID:  params.TemplateID,
		ReplyTo:     params.ReplyTo,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return campaign, nil
}

// Get retrieves a campaign by ID.
func (s *CampaignsService) Get(ctx context.Context, campaignID string) (*Campaign, error) {
	campaign, err := s.client.api.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, wrapError(err)
	}
	return campaign, nil
}

// Update applies a partial update to a draft campaign. Campaigns past draft
// status reject content changes.
func (s *CampaignsService) Update(ctx context.Context, campaignID string, params *UpdateCampaignParams) (*Campaign, error) {
	campaign, err := s.client.api.UpdateCampaign(ctx, campaignID, &api.UpdateCampaignRequest{
		Name:        params.Name,
		Subject:     params.Subject,
		HTMLContent: params.HTML,
		TextContent: params.Text,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return campaign, nil
}

// Delete deletes a campaign.
func (s *CampaignsService) Delete(ctx context.Context, campaignID string) error {
	return wrapError(s.client.api.DeleteCampaign(ctx, campaignID))
}

// List lists campaigns.
func (s *CampaignsService) List(ctx context.Context, params ListCampaignsParams) (*CampaignPage, error) {
	resp, err := s.client.api.ListCampaigns(ctx, api.ListCampaignsQuery{
		Page:   params.Page,
		Limit:  params.Limit,
		Status: string(params.Status),
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return &CampaignPage{
		Campaigns: resp.Campaigns,
		Page:      resp.Page,
		Limit:     resp.Limit,
		Total:     resp.Total,
	}, nil
}

// Send starts sending the campaign immediately.
func (s *CampaignsService) Send(ctx context.Context, campaignID string) (*Campaign, error) {
	campaign, err := s.client.api.SendCampaign(ctx, campaignID)
	if err != nil {
		return nil, wrapError(err)
	}
	return campaign, nil
}

// Schedule schedules the campaign to send at a future time.
func (s *CampaignsService) Schedule(ctx context.Context, campaignID string, at time.Time) (*Campaign, error) {
	campaign, err := s.client.api.ScheduleCampaign(ctx, campaignID, &api.ScheduleCampaignRequest{
		ScheduledAt: at.Format(time.RFC3339),
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return campaign, nil
}

// Pause pauses a sending campaign.
func (s *CampaignsService) Pause(ctx context.Context, campaignID string) (*Campaign, error) {
	campaign, err := s.client.api.PauseCampaign(ctx, campaignID)
	if err != nil {
		return nil, wrapError(err)
	}
	return campaign, nil
}

// Resume resumes a paused campaign.
func (s *CampaignsService) Resume(ctx context.Context, campaignID string) (*Campaign, error) {
	campaign, err := s.client.api.ResumeCampaign(ctx, campaignID)
	if err != nil {
		return nil, wrapError(err)
	}
	return campaign, nil
}

// Cancel cancels a scheduled or sending campaign.
func (s *CampaignsService) Cancel(ctx context.Context, campaignID string) (*Campaign, error) {
	campaign, err := s.client.api.CancelCampaign(ctx, campaignID)
	if err != nil {
		return nil, wrapError(err)
	}
	return campaign, nil
}

// GetStats retrieves delivery statistics for a campaign.
func (s *CampaignsService) GetStats(ctx context.Context, campaignID string) (*CampaignStats, error) {
	stats, err := s.client.api.GetCampaignStats(ctx, campaignID)
	if err != nil {
		return nil, wrapError(err)
	}
	return stats, nil
}

// Preview renders the campaign content, personalized for the given contact
// when contactID is set.
func (s *CampaignsService) Preview(ctx context.Context, campaignID, contactID string) (*CampaignPreview, error) {
	preview, err := s.client.api.PreviewCampaign(ctx, campaignID, &api.PreviewCampaignRequest{ContactID: contactID})
	if err != nil {
		return nil, wrapError(err)
	}
	return preview, nil
}

// TestSend delivers the campaign to test addresses without affecting
// campaign status or stats. Returns the number of test emails sent.
func (s *CampaignsService) TestSend(ctx context.Context, campaignID string, emails ...string) (int, error) {
	resp, err := s.client.api.TestSendCampaign(ctx, campaignID, &api.TestSendCampaignRequest{Emails: emails})
	if err != nil {
		return 0, wrapError(err)
	}
	return resp.Sent, nil
}
