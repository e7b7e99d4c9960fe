package driven

import (
	"context"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
)

// VaultStore persists the credential map encrypted at rest.
//
// The persisted form is one blob {iv, ciphertext}. A missing file on
// first run is treated as an empty vault, not an error. A blob that
// cannot be decrypted yields domain.ErrDecryptionFailed so the vault
// service can degrade instead of crashing.
type VaultStore interface {
	// Load decrypts and returns the full credential map.
	Load(ctx context.Context) (map[string]domain.Credential, error)

	// Save re-encrypts and atomically replaces the persisted blob.
	Save(ctx context.Context, credentials map[string]domain.Credential) error
}
