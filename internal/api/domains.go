package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// DomainDTO is the wire form of a sending domain.
type DomainDTO struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Status        string         `json:"status"`
	Verified      bool           `json:"verified"`
	MXVerified    bool           `json:"mxVerified"`
	SPFVerified   bool           `json:"spfVerified"`
	DKIMVerified  bool           `json:"dkimVerified"`
	DMARCVerified bool           `json:"dmarcVerified"`
	DNSRecords    []DNSRecordDTO `json:"dnsRecords,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// DNSRecordDTO is one DNS record required for domain verification.
type DNSRecordDTO struct {
	Type          string     `json:"type"`
	Name          string     `json:"name"`
	Value         string     `json:"value"`
	Verified      bool       `json:"verified"`
	LastCheckedAt *time.Time `json:"lastCheckedAt,omitempty"`
}

// CreateDomainRequest is the POST /domains payload.
type CreateDomainRequest struct {
	Domain string `json:"domain"`
}

// VerifyDomainResponse is the POST /domains/{id}/verify response.
type VerifyDomainResponse struct {
	Verified bool           `json:"verified"`
	Records  []DNSRecordDTO `json:"records,omitempty"`
}

// CreateDomain registers a sending domain.
func (c *Client) CreateDomain(ctx context.Context, req *CreateDomainRequest) (*DomainDTO, error) {
	var result DomainDTO
	if err := c.Do(ctx, http.MethodPost, "/domains", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetDomain retrieves a domain by ID.
func (c *Client) GetDomain(ctx context.Context, domainID string) (*DomainDTO, error) {
	var result DomainDTO
	path := fmt.Sprintf("/domains/%s", url.PathEscape(domainID))
	if err := c.Do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteDomain removes a domain.
func (c *Client) DeleteDomain(ctx context.Context, domainID string) error {
	path := fmt.Sprintf("/domains/%s", url.PathEscape(domainID))
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// ListDomains lists all domains.
func (c *Client) ListDomains(ctx context.Context) ([]DomainDTO, error) {
	var result []DomainDTO
	if err := c.Do(ctx, http.MethodGet, "/domains", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// VerifyDomain triggers a server-side DNS verification pass.
func (c *Client) VerifyDomain(ctx context.Context, domainID string) (*VerifyDomainResponse, error) {
	var result VerifyDomainResponse
	path := fmt.Sprintf("/domains/%s/verify", url.PathEscape(domainID))
	if err := c.Do(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
