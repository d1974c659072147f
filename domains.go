package mailat

import (
	"context"

	"github.com/mailat/mailat-go/internal/api"
)

// DomainStatus represents a sending domain's verification state.
type DomainStatus string

// Sending domain states.
const (
	DomainStatusPending  DomainStatus = "pending"
	DomainStatusVerified DomainStatus = "verified"
	DomainStatusFailed   DomainStatus = "failed"
)

// Domain is a sending domain.
type Domain = api.DomainDTO

// DNSRecord is one DNS record required for domain verification.
type DNSRecord = api.DNSRecordDTO

// DomainVerification is the outcome of a verification pass.
type DomainVerification = api.VerifyDomainResponse

// VerificationStatus is the per-mechanism breakdown of a domain's DNS
// verification.
type VerificationStatus struct {
	MX    bool
	SPF   bool
	DKIM  bool
	DMARC bool
}

// Complete reports whether every mechanism has verified.
func (v VerificationStatus) Complete() bool {
	return v.MX && v.SPF && v.DKIM && v.DMARC
}

// DomainsService manages sending domains.
type DomainsService struct {
	client *Client
}

// Create registers a sending domain. The returned Domain carries the DNS
// records that must be published before verification can succeed.
func (s *DomainsService) Create(ctx context.Context, domain string) (*Domain, error) {
	d, err := s.client.api.CreateDomain(ctx, &api.CreateDomainRequest{Domain: domain})
	if err != nil {
		return nil, wrapError(err)
	}
	return d, nil
}

// Get retrieves a domain by ID.
func (s *DomainsService) Get(ctx context.Context, domainID string) (*Domain, error) {
	d, err := s.client.api.GetDomain(ctx, domainID)
	if err != nil {
		return nil, wrapError(err)
	}
	return d, nil
}

// Delete removes a domain. Sending from it stops immediately.
func (s *DomainsService) Delete(ctx context.Context, domainID string) error {
	return wrapError(s.client.api.DeleteDomain(ctx, domainID))
}

// List lists all domains.
func (s *DomainsService) List(ctx context.Context) ([]Domain, error) {
	domains, err := s.client.api.ListDomains(ctx)
	if err != nil {
		return nil, wrapError(err)
	}
	return domains, nil
}

// Verify triggers a server-side DNS verification pass and returns the
// result. Verification is idempotent; call it again after updating DNS.
func (s *DomainsService) Verify(ctx context.Context, domainID string) (*DomainVerification, error) {
	result, err := s.client.api.VerifyDomain(ctx, domainID)
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// IsVerified reports whether a domain is fully verified for sending.
func (s *DomainsService) IsVerified(ctx context.Context, domainID string) (bool, error) {
	d, err := s.Get(ctx, domainID)
	if err != nil {
		return false, err
	}
	return d.Verified, nil
}

// GetVerificationStatus returns the per-mechanism DNS verification
// breakdown for a domain.
func (s *DomainsService) GetVerificationStatus(ctx context.Context, domainID string) (*VerificationStatus, error) {
	d, err := s.Get(ctx, domainID)
	if err != nil {
		return nil, err
	}
	return &VerificationStatus{
		MX:    d.MXVerified,
		SPF:   d.SPFVerified,
		DKIM:  d.DKIMVerified,
		DMARC: d.DMARCVerified,
	}, nil
}
