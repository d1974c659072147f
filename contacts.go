package mailat

import (
	"context"

	"github.com/mailat/mailat-go/internal/api"
)

// ContactStatus represents a contact's subscription status.
type ContactStatus string

// Contact subscription statuses.
const (
	ContactStatusSubscribed   ContactStatus = "subscribed"
	ContactStatusUnsubscribed ContactStatus = "unsubscribed"
	ContactStatusBounced      ContactStatus = "bounced"
	ContactStatusComplained   ContactStatus = "complained"
)

// Contact is a marketing contact.
type Contact = api.ContactDTO

// ContactList is a named grouping of contacts, not a page of results.
type ContactList = api.ContactListDTO

// ImportResult summarizes a bulk contact import.
type ImportResult = api.ImportContactsResponse

// CreateContactParams describes a new contact. The same shape is used for
// the items of a bulk import.
type CreateContactParams struct {
	Email      string
	FirstName  string
	LastName   string
	Attributes map[string]any
	Tags       []string
	ListIDs    []string
}

// UpdateContactParams is a partial contact update. Nil fields are left
// unchanged; a non-nil empty Tags slice clears all tags.
type UpdateContactParams struct {
	FirstName  *string
	LastName   *string
	Attributes *map[string]any
	Tags       *[]string
}

// ListContactsParams filters Contacts.List.
type ListContactsParams struct {
	Page   int
	Limit  int
	Status ContactStatus
	Tag    string
	Search string
}

// ContactPage is one page of contacts.
type ContactPage struct {
	Contacts []Contact
	Page     int
	Limit    int
	Total    int
}

// ContactsService manages marketing contacts.
type ContactsService struct {
	client *Client
}

// Create creates a contact.
func (s *ContactsService) Create(ctx context.Context, params *CreateContactParams) (*Contact, error) {
	contact, err := s.client.api.CreateContact(ctx, contactCreateRequest(params))
	if err != nil {
		return nil, wrapError(err)
	}
	return contact, nil
}

// Get retrieves a contact by ID or email address.
func (s *ContactsService) Get(ctx context.Context, idOrEmail string) (*Contact, error) {
	contact, err := s.client.api.GetContact(ctx, idOrEmail)
	if err != nil {
		return nil, wrapError(err)
	}
	return contact, nil
}

// Update applies a partial update to a contact.
func (s *ContactsService) Update(ctx context.Context, contactID string, params *UpdateContactParams) (*Contact, error) {
	contact, err := s.client.api.UpdateContact(ctx, contactID, &api.UpdateContactRequest{
		FirstName:  params.FirstName,
		LastName:   params.LastName,
		Attributes: params.Attributes,
		Tags:       params.Tags,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return contact, nil
}

// Delete deletes a contact.
func (s *ContactsService) Delete(ctx context.Context, contactID string) error {
	return wrapError(s.client.api.DeleteContact(ctx, contactID))
}

// List lists contacts with pagination and filters.
func (s *ContactsService) List(ctx context.Context, params ListContactsParams) (*ContactPage, error) {
	resp, err := s.client.api.ListContacts(ctx, api.ListContactsQuery{
		Page:   params.Page,
		Limit:  params.Limit,
		Status: string(params.Status),
		Tag:    params.Tag,
		Search: params.Search,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return &ContactPage{
		Contacts: resp.Contacts,
		Page:     resp.Page,
		Limit:    resp.Limit,
		Total:    resp.Total,
	}, nil
}

// Search runs a free-text search over contacts.
func (s *ContactsService) Search(ctx context.Context, query string, page, limit int) ([]Contact, error) {
	contacts, err := s.client.api.SearchContacts(ctx, query, page, limit)
	if err != nil {
		return nil, wrapError(err)
	}
	return contacts, nil
}

// Import imports contacts in bulk, optionally adding them all to a list and
// tagging them. Existing contacts are skipped, not overwritten.
func (s *ContactsService) Import(ctx context.Context, contacts []*CreateContactParams, listID string, tags []string) (*ImportResult, error) {
	req := &api.ImportContactsRequest{
		Contacts: make([]api.CreateContactRequest, len(contacts)),
		ListID:   listID,
		Tags:     tags,
	}
	for i, p := range contacts {
		req.Contacts[i] = *contactCreateRequest(p)
	}
	result, err := s.client.api.ImportContacts(ctx, req)
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// Unsubscribe unsubscribes a contact by email address. When listID is set
// the contact leaves that list only; otherwise the unsubscribe is global.
func (s *ContactsService) Unsubscribe(ctx context.Context, email, listID string) (*Contact, error) {
	contact, err := s.client.api.UnsubscribeContact(ctx, &api.UnsubscribeContactRequest{
		Email:  email,
		ListID: listID,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return contact, nil
}

// GetLists returns the lists a contact belongs to.
func (s *ContactsService) GetLists(ctx context.Context, contactID string) ([]ContactList, error) {
	lists, err := s.client.api.GetContactLists(ctx, contactID)
	if err != nil {
		return nil, wrapError(err)
	}
	return lists, nil
}

// AddTags adds tags to a contact, preserving its existing tags. The update
// is a read-modify-write; concurrent tag updates to the same contact can
// lose writes.
func (s *ContactsService) AddTags(ctx context.Context, contactID string, tags ...string) (*Contact, error) {
	contact, err := s.Get(ctx, contactID)
	if err != nil {
		return nil, err
	}

	merged := append([]string(nil), contact.Tags...)
	for _, t := range tags {
		if !containsString(merged, t) {
			merged = append(merged, t)
		}
	}
	return s.Update(ctx, contactID, &UpdateContactParams{Tags: &merged})
}

// RemoveTags removes tags from a contact. Tags the contact does not have
// are ignored.
func (s *ContactsService) RemoveTags(ctx context.Context, contactID string, tags ...string) (*Contact, error) {
	contact, err := s.Get(ctx, contactID)
	if err != nil {
		return nil, err
	}

	remaining := make([]string, 0, len(contact.Tags))
	for _, t := range contact.Tags {
		if !containsString(tags, t) {
			remaining = append(remaining, t)
		}
	}
	return s.Update(ctx, contactID, &UpdateContactParams{Tags: &remaining})
}

func contactCreateRequest(p *CreateContactParams) *api.CreateContactRequest {
	return &api.CreateContactRequest{
		Email:      p.Email,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Attributes: p.Attributes,
		Tags:       p.Tags,
		ListIDs:    p.ListIDs,
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
