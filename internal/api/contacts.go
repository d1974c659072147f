package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ContactDTO is the wire form of a marketing contact.
type ContactDTO struct {
	ID              string         `json:"id"`
	Email           string         `json:"email"`
	FirstName       string         `json:"firstName,omitempty"`
	LastName        string         `json:"lastName,omitempty"`
	Status          string         `json:"status"`
	Attributes      map[string]any `json:"attributes,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
	EngagementScore float64        `json:"engagementScore,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// ContactListDTO is the wire form of a contact list (the grouping entity,
// not a page of contacts).
type ContactListDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Type         string    `json:"type"`
	ContactCount int       `json:"contactCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateContactRequest is the POST /contacts payload.
type CreateContactRequest struct {
	Email      string         `json:"email"`
	FirstName  string         `json:"firstName,omitempty"`
	LastName   string         `json:"lastName,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Tags       []string       `json:"tags,omitempty"`
	ListIDs    []string       `json:"listIds,omitempty"`
}

// UpdateContactRequest is the PUT /contacts/{id} payload.
type UpdateContactRequest struct {
	FirstName  *string         `json:"firstName,omitempty"`
	LastName   *string         `json:"lastName,omitempty"`
	Attributes *map[string]any `json:"attributes,omitempty"`
	Tags       *[]string       `json:"tags,omitempty"`
}

// ContactListResponse is the GET /contacts response.
type ContactListResponse struct {
	Contacts []ContactDTO `json:"contacts"`
	Pagination
}

// ImportContactsRequest is the POST /contacts/import payload.
type ImportContactsRequest struct {
	Contacts []CreateContactRequest `json:"contacts"`
	ListID   string                 `json:"listId,omitempty"`
	Tags     []string               `json:"tags,omitempty"`
}

// ImportContactsResponse summarizes a bulk import.
type ImportContactsResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// UnsubscribeContactRequest is the POST /contacts/unsubscribe payload.
type UnsubscribeContactRequest struct {
	Email  string `json:"email"`
	ListID string `json:"listId,omitempty"`
}

// ListContactsQuery filters GET /contacts.
type ListContactsQuery struct {
	Page   int
	Limit  int
	Status string
	Tag    string
	Search string
}

// CreateContact creates a contact.
func (c *Client) CreateContact(ctx context.Context, req *CreateContactRequest) (*ContactDTO, error) {
	var result ContactDTO
	if err := c.Do(ctx, http.MethodPost, "/contacts", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetContact retrieves a contact by ID or email address.
func (c *Client) GetContact(ctx context.Context, idOrEmail string) (*ContactDTO, error) {
	var result ContactDTO
	path := fmt.Sprintf("/contacts/%s", url.PathEscape(idOrEmail))
	if err := c.Do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateContact applies a partial update to a contact.
func (c *Client) UpdateContact(ctx context.Context, contactID string, req *UpdateContactRequest) (*ContactDTO, error) {
	var result ContactDTO
	path := fmt.Sprintf("/contacts/%s", url.PathEscape(contactID))
	if err := c.Do(ctx, http.MethodPut, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteContact deletes a contact.
func (c *Client) DeleteContact(ctx context.Context, contactID string) error {
	path := fmt.Sprintf("/contacts/%s", url.PathEscape(contactID))
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// ListContacts lists contacts with pagination and filters.
func (c *Client) ListContacts(ctx context.Context, q ListContactsQuery) (*ContactListResponse, error) {
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
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	var result ContactListResponse
	r := &Request{Method: http.MethodGet, Path: "/contacts", Query: query}
	if err := c.DoRequest(ctx, r, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchContacts runs a free-text search over contacts.
func (c *Client) SearchContacts(ctx context.Context, q string, page, limit int) ([]ContactDTO, error) {
	query := url.Values{"q": []string{q}}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var result []ContactDTO
	r := &Request{Method: http.MethodGet, Path: "/contacts/search", Query: query}
	if err := c.DoRequest(ctx, r, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ImportContacts imports contacts in bulk.
func (c *Client) ImportContacts(ctx context.Context, req *ImportContactsRequest) (*ImportContactsResponse, error) {
	var result ImportContactsResponse
	if err := c.Do(ctx, http.MethodPost, "/contacts/import", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UnsubscribeContact unsubscribes a contact, optionally from one list only.
func (c *Client) UnsubscribeContact(ctx context.Context, req *UnsubscribeContactRequest) (*ContactDTO, error) {
	var result ContactDTO
	if err := c.Do(ctx, http.MethodPost, "/contacts/unsubscribe", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetContactLists returns the lists a contact belongs to.
func (c *Client) GetContactLists(ctx context.Context, contactID string) ([]ContactListDTO, error) {
	var result []ContactListDTO
	path := fmt.Sprintf("/contacts/%s/lists", url.PathEscape(contactID))
	if err := c.Do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
