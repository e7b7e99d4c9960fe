package domain

import "time"

// Credential stores one provider secret together with its usage
// metadata. Credentials are owned exclusively by the vault: the secret
// never leaves it except as an opaque value handed to an outbound call.
type Credential struct {
	// ID is the unique identifier (UUID), assigned at registration.
	ID string `json:"id"`

	// ServiceID links the credential to a provider descriptor.
	ServiceID string `json:"service_id"`

	// Secret is the opaque key material. Never included in metadata
	// exports.
	Secret string `json:"secret"`

	// Tier is copied from the descriptor at registration time.
	Tier Tier `json:"tier"`

	// AddedAt is when the credential was registered.
	AddedAt time.Time `json:"added_at"`

	// LastUsed is when the secret was last handed out.
	LastUsed time.Time `json:"last_used,omitempty"`

	// UsageCount is the total number of times the secret was handed out.
	UsageCount int64 `json:"usage_count"`

	// LastValidated is when the secret last passed a live probe.
	// Zero when validation was skipped.
	LastValidated time.Time `json:"last_validated,omitempty"`

	// IsValid records the outcome of the most recent probe.
	IsValid bool `json:"is_valid"`
}

// Stale reports whether the credential should be re-probed because its
// last validation is older than maxAge.
func (c *Credential) Stale(maxAge time.Duration, now time.Time) bool {
	if c.LastValidated.IsZero() {
		return true
	}
	return now.Sub(c.LastValidated) > maxAge
}

// Metadata returns the non-secret view of the credential.
func (c *Credential) Metadata() CredentialMetadata {
	return CredentialMetadata{
		ServiceID:     c.ServiceID,
		Tier:          c.Tier,
		AddedAt:       c.AddedAt,
		LastUsed:      c.LastUsed,
		UsageCount:    c.UsageCount,
		LastValidated: c.LastValidated,
		IsValid:       c.IsValid,
	}
}

// CredentialMetadata is the exportable, secret-free projection of a
// stored credential.
type CredentialMetadata struct {
	ServiceID     string    `json:"service_id"`
	Tier          Tier      `json:"tier"`
	AddedAt       time.Time `json:"added_at"`
	LastUsed      time.Time `json:"last_used,omitempty"`
	UsageCount    int64     `json:"usage_count"`
	LastValidated time.Time `json:"last_validated,omitempty"`
	IsValid       bool      `json:"is_valid"`
}

// SetCredentialOptions controls credential registration behaviour.
type SetCredentialOptions struct {
	// SkipValidation stores the secret without the format check and
	// live probe. The credential is flagged invalid until a later
	// revalidation succeeds.
	SkipValidation bool
}
