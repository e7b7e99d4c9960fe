package driving

import (
	"context"
	"time"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
)

// CredentialManager is the administrative surface of the credential
// vault: registration, removal, and secret-free inspection. Secret
// material never crosses this interface outward.
type CredentialManager interface {
	// SetCredential validates and stores a provider secret.
	SetCredential(ctx context.Context, serviceID, secret string, opts domain.SetCredentialOptions) error

	// RemoveCredential deletes the stored secret and persists.
	RemoveCredential(ctx context.Context, serviceID string) error

	// Metadata returns the non-secret view of every stored credential.
	Metadata(ctx context.Context) []domain.CredentialMetadata

	// RevalidateStale re-probes credentials whose last validation is
	// older than maxAge and returns how many were probed.
	RevalidateStale(ctx context.Context, maxAge time.Duration) (int, error)
}
