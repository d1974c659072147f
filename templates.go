package mailat

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/mailat/mailat-go/internal/api"
)

// Template is a stored email template.
type Template = api.TemplateDTO

// TemplatePreview is a template rendered with sample variables.
type TemplatePreview = api.PreviewTemplateResponse

// TemplateValidation is the result of a server-side syntax check.
type TemplateValidation = api.ValidateTemplateResponse

// CreateTemplateParams describes a new template.
type CreateTemplateParams struct {
	Name        string
	Subject     string
	HTML        string
	Text        string
	Description string
}

// UpdateTemplateParams is a partial template update. Nil fields are left
// unchanged server-side.
type UpdateTemplateParams struct {
	Name        *string
	Subject     *string
	HTML        *string
	Text        *string
	Description *string
	Active      *bool
}

// ListTemplatesParams filters Templates.List.
type ListTemplatesParams struct {
	Page   int
	Limit  int
	Search string
}

// TemplatesService manages stored email templates.
type TemplatesService struct {
	client *Client
}

// Create creates a template.
func (s *TemplatesService) Create(ctx context.Context, params *CreateTemplateParams) (*Template, error) {
	tmpl, err := s.client.api.CreateTemplate(ctx, &api.CreateTemplateRequest{
		Name:        params.Name,
		Subject:     params.Subject,
		HTMLBody:    params.HTML,
		TextBody:    params.Text,
		Description: params.Description,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return tmpl, nil
}

// Get retrieves a template by ID.
func (s *TemplatesService) Get(ctx context.Context, templateID string) (*Template, error) {
	tmpl, err := s.client.api.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, wrapError(err)
	}
	return tmpl, nil
}

// Update applies a partial update to a template.
func (s *TemplatesService) Update(ctx context.Context, templateID string, params *UpdateTemplateParams) (*Template, error) {
	tmpl, err := s.client.api.UpdateTemplate(ctx, templateID, &api.UpdateTemplateRequest{
		Name:        params.Name,
		Subject:     params.Subject,
		HTMLBody:    params.HTML,
		TextBody:    params.Text,
		Description: params.Description,
		IsActive:    params.Active,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return tmpl, nil
}

// Delete deletes a template.
func (s *TemplatesService) Delete(ctx context.Context, templateID string) error {
	return wrapError(s.client.api.DeleteTemplate(ctx, templateID))
}

// List lists templates, optionally filtered by a search term.
func (s *TemplatesService) List(ctx context.Context, params ListTemplatesParams) ([]Template, error) {
	tmpls, err := s.client.api.ListTemplates(ctx, api.ListTemplatesQuery{
		Page:   params.Page,
		Limit:  params.Limit,
		Search: params.Search,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return tmpls, nil
}

// Enable activates a template so it can be used for sending.
func (s *TemplatesService) Enable(ctx context.Context, templateID string) (*Template, error) {
	active := true
	return s.Update(ctx, templateID, &UpdateTemplateParams{Active: &active})
}

// Disable deactivates a template without deleting it.
func (s *TemplatesService) Disable(ctx context.Context, templateID string) (*Template, error) {
	active := false
	return s.Update(ctx, templateID, &UpdateTemplateParams{Active: &active})
}

// Preview renders a template server-side with the given variables.
func (s *TemplatesService) Preview(ctx context.Context, templateID string, variables map[string]any) (*TemplatePreview, error) {
	preview, err := s.client.api.PreviewTemplate(ctx, templateID, &api.PreviewTemplateRequest{Variables: variables})
	if err != nil {
		return nil, wrapError(err)
	}
	return preview, nil
}

// Validate checks template syntax server-side without saving anything.
func (s *TemplatesService) Validate(ctx context.Context, subject, html, text string) (*TemplateValidation, error) {
	result, err := s.client.api.ValidateTemplate(ctx, &api.ValidateTemplateRequest{
		Subject:  subject,
		HTMLBody: html,
		TextBody: text,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

var templateVarPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// ExtractTemplateVariables returns the distinct variable names referenced by
// {{...}} placeholders in the given template content, sorted alphabetically.
// Block markers lose their #, / and ^ prefixes and contribute their first
// token; comment placeholders ({{! ...}}) are skipped.
func ExtractTemplateVariables(content string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range templateVarPattern.FindAllStringSubmatch(content, -1) {
		name := strings.TrimLeft(strings.TrimSpace(m[1]), "#/^")
		fields := strings.Fields(name)
		if len(fields) == 0 {
			continue
		}
		name = fields[0]
		if strings.HasPrefix(name, "!") {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
