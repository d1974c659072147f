package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// TemplateDTO is the wire form of an email template.
type TemplateDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Subject     string    `json:"subject"`
	HTMLBody    string    `json:"htmlBody"`
	TextBody    string    `json:"textBody,omitempty"`
	Variables   []string  `json:"variables,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateTemplateRequest is the POST /templates payload.
type CreateTemplateRequest struct {
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	HTMLBody    string `json:"htmlBody"`
	TextBody    string `json:"textBody,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateTemplateRequest is the PUT /templates/{id} payload. Nil fields are
// omitted from the body entirely, leaving them unchanged server-side.
type UpdateTemplateRequest struct {
	Name        *string `json:"name,omitempty"`
	Subject     *string `json:"subject,omitempty"`
	HTMLBody    *string `json:"htmlBody,omitempty"`
	TextBody    *string `json:"textBody,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// PreviewTemplateRequest is the POST /templates/{id}/preview payload.
type PreviewTemplateRequest struct {
	Variables map[string]any `json:"variables,omitempty"`
}

// PreviewTemplateResponse carries a rendered template.
type PreviewTemplateResponse struct {
	Subject  string `json:"subject"`
	HTMLBody string `json:"htmlBody"`
	TextBody string `json:"textBody,omitempty"`
}

// ValidateTemplateRequest is the POST /templates/validate payload.
type ValidateTemplateRequest struct {
	Subject  string `json:"subject,omitempty"`
	HTMLBody string `json:"htmlBody"`
	TextBody string `json:"textBody,omitempty"`
}

// ValidateTemplateResponse is the syntax-check result.
type ValidateTemplateResponse struct {
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors,omitempty"`
	Variables []string `json:"variables,omitempty"`
}

// ListTemplatesQuery filters GET /templates.
type ListTemplatesQuery struct {
	Page   int
	Limit  int
	Search string
}

// CreateTemplate creates a template.
func (c *Client) CreateTemplate(ctx context.Context, req *CreateTemplateRequest) (*TemplateDTO, error) {
	var result TemplateDTO
	if err := c.Do(ctx, http.MethodPost, "/templates", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetTemplate retrieves a template by ID.
func (c *Client) GetTemplate(ctx context.Context, templateID string) (*TemplateDTO, error) {
	var result TemplateDTO
	path := fmt.Sprintf("/templates/%s", url.PathEscape(templateID))
	if err := c.Do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateTemplate applies a partial update to a template.
func (c *Client) UpdateTemplate(ctx context.Context, templateID string, req *UpdateTemplateRequest) (*TemplateDTO, error) {
	var result TemplateDTO
	path := fmt.Sprintf("/templates/%s", url.PathEscape(templateID))
	if err := c.Do(ctx, http.MethodPut, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteTemplate deletes a template.
func (c *Client) DeleteTemplate(ctx context.Context, templateID string) error {
	path := fmt.Sprintf("/templates/%s", url.PathEscape(templateID))
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// ListTemplates lists templates.
func (c *Client) ListTemplates(ctx context.Context, q ListTemplatesQuery) ([]TemplateDTO, error) {
	query := url.Values{}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	var result []TemplateDTO
	r := &Request{Method: http.MethodGet, Path: "/templates", Query: query}
	if err := c.DoRequest(ctx, r, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// PreviewTemplate renders a template with sample variables.
func (c *Client) PreviewTemplate(ctx context.Context, templateID string, req *PreviewTemplateRequest) (*PreviewTemplateResponse, error) {
	var result PreviewTemplateResponse
	path := fmt.Sprintf("/templates/%s/preview", url.PathEscape(templateID))
	if err := c.Do(ctx, http.MethodPost, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ValidateTemplate checks template syntax server-side without saving.
func (c *Client) ValidateTemplate(ctx context.Context, req *ValidateTemplateRequest) (*ValidateTemplateResponse, error) {
	var result ValidateTemplateResponse
	if err := c.Do(ctx, http.MethodPost, "/templates/validate", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
