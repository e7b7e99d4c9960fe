package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
	"github.com/tzij-labs/tzij-cli/internal/core/ports/driven"
	"github.com/tzij-labs/tzij-cli/internal/core/ports/driving"
	"github.com/tzij-labs/tzij-cli/internal/logger"
)

// Ensure Vault implements the interface.
var _ driving.CredentialManager = (*Vault)(nil)

// RevalidateAfter is how long a probe result stays fresh before
// RevalidateStale re-probes the credential.
const RevalidateAfter = 7 * 24 * time.Hour

// Vault holds provider secrets, validates them, and gates their use.
// The decrypted credential map lives in memory; every mutation
// re-encrypts and flushes the whole store through the VaultStore port.
//
// A vault whose persisted blob cannot be decrypted starts sealed:
// reads behave as an empty vault and mutations are rejected so the
// undecryptable blob is never clobbered.
type Vault struct {
	store    driven.VaultStore
	registry *ProviderRegistry
	limiter  *RateLimiter
	client   driven.ProviderClient

	mu     sync.RWMutex
	creds  map[string]domain.Credential
	sealed bool

	// saveMu serializes persistence: encrypt + write is single-writer.
	saveMu sync.Mutex

	now func() time.Time
}

// NewVault creates a vault service. Call Initialize before use.
func NewVault(
	store driven.VaultStore,
	registry *ProviderRegistry,
	limiter *RateLimiter,
	client driven.ProviderClient,
) *Vault {
	return &Vault{
		store:    store,
		registry: registry,
		limiter:  limiter,
		client:   client,
		creds:    make(map[string]domain.Credential),
		now:      time.Now,
	}
}

// Initialize loads and decrypts the persisted store. A decryption
// failure does not crash the service: the vault seals itself and the
// process continues in a degraded, credential-less mode.
func (v *Vault) Initialize(ctx context.Context) error {
	creds, err := v.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrDecryptionFailed) {
			logger.Warn("vault: %v, continuing without credentials", err)
			v.mu.Lock()
			v.sealed = true
			v.creds = make(map[string]domain.Credential)
			v.mu.Unlock()
			return nil
		}
		return fmt.Errorf("loading vault: %w", err)
	}

	if creds == nil {
		creds = make(map[string]domain.Credential)
	}
	v.mu.Lock()
	v.creds = creds
	v.sealed = false
	v.mu.Unlock()

	logger.Info("vault: loaded %d credentials", len(creds))
	return nil
}

// Sealed reports whether the vault is in degraded mode.
func (v *Vault) Sealed() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.sealed
}

// SetCredential validates and stores a provider secret.
//
// The service ID must be known to the registry. Unless SkipValidation
// is set, the secret must match the descriptor's key format and pass a
// live probe against its test endpoint; a skipped credential is stored
// flagged invalid until a later revalidation succeeds.
func (v *Vault) SetCredential(ctx context.Context, serviceID, secret string, opts domain.SetCredentialOptions) error {
	if err := v.rejectSealed(); err != nil {
		return err
	}

	desc, err := v.registry.Descriptor(serviceID)
	if err != nil {
		return err
	}

	cred := domain.Credential{
		ID:        uuid.NewString(),
		ServiceID: serviceID,
		Secret:    secret,
		Tier:      desc.Tier,
		AddedAt:   v.now(),
	}

	if opts.SkipValidation {
		logger.Debug("vault: storing %s without validation", serviceID)
	} else {
		if !desc.MatchesKeyFormat(secret) {
			return fmt.Errorf("%s: %w", serviceID, domain.ErrInvalidKeyFormat)
		}
		if err := v.probe(ctx, desc, secret); err != nil {
			return fmt.Errorf("%s: %w", serviceID, domain.ErrValidationFailed)
		}
		cred.IsValid = true
		cred.LastValidated = v.now()
	}

	v.mu.Lock()
	v.creds[serviceID] = cred
	snapshot := v.snapshotLocked()
	v.mu.Unlock()

	if err := v.persist(ctx, snapshot); err != nil {
		return fmt.Errorf("persisting vault: %w", err)
	}
	logger.Info("vault: credential stored for %s", desc.DisplayName)
	return nil
}

// RemoveCredential deletes the stored secret and persists.
func (v *Vault) RemoveCredential(ctx context.Context, serviceID string) error {
	if err := v.rejectSealed(); err != nil {
		return err
	}

	v.mu.Lock()
	_, ok := v.creds[serviceID]
	if !ok {
		v.mu.Unlock()
		return fmt.Errorf("%s: %w", serviceID, domain.ErrNoCredential)
	}
	delete(v.creds, serviceID)
	snapshot := v.snapshotLocked()
	v.mu.Unlock()

	if err := v.persist(ctx, snapshot); err != nil {
		return fmt.Errorf("persisting vault: %w", err)
	}
	return nil
}

// CredentialFor hands out the secret for an outbound call. The hand-out
// is refused while the provider's rate window is exhausted; on success
// the credential's usage stats are updated in memory.
//
// Budget is consumed by the router's RateLimiter.Allow; this gate only
// observes it, so the two checks the routing path performs never
// double-count.
func (v *Vault) CredentialFor(_ context.Context, serviceID string) (string, error) {
	if v.limiter.Exhausted(serviceID) {
		return "", fmt.Errorf("%s: %w", serviceID, domain.ErrRateLimited)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	cred, ok := v.creds[serviceID]
	if !ok {
		return "", fmt.Errorf("%s: %w", serviceID, domain.ErrNoCredential)
	}

	cred.LastUsed = v.now()
	cred.UsageCount++
	v.creds[serviceID] = cred

	return cred.Secret, nil
}

// LastValidated returns when the service's credential last passed a
// probe. The zero time means no credential or never validated. The
// router uses this to tie-break candidates of equal priority.
func (v *Vault) LastValidated(serviceID string) time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if cred, ok := v.creds[serviceID]; ok {
		return cred.LastValidated
	}
	return time.Time{}
}

// Metadata returns the non-secret view of every stored credential.
func (v *Vault) Metadata(_ context.Context) []domain.CredentialMetadata {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]domain.CredentialMetadata, 0, len(v.creds))
	for _, cred := range v.creds {
		out = append(out, cred.Metadata())
	}
	return out
}

// RevalidateStale re-probes credentials whose last validation is older
// than maxAge and records the outcome. Returns how many were probed.
func (v *Vault) RevalidateStale(ctx context.Context, maxAge time.Duration) (int, error) {
	if err := v.rejectSealed(); err != nil {
		return 0, err
	}

	v.mu.RLock()
	var stale []domain.Credential
	for _, cred := range v.creds {
		if cred.Stale(maxAge, v.now()) {
			stale = append(stale, cred)
		}
	}
	v.mu.RUnlock()

	if len(stale) == 0 {
		return 0, nil
	}

	for _, cred := range stale {
		desc, err := v.registry.Descriptor(cred.ServiceID)
		if err != nil {
			continue
		}
		probeErr := v.probe(ctx, desc, cred.Secret)

		v.mu.Lock()
		current, ok := v.creds[cred.ServiceID]
		if ok {
			current.IsValid = probeErr == nil
			current.LastValidated = v.now()
			v.creds[cred.ServiceID] = current
		}
		v.mu.Unlock()

		if probeErr != nil {
			logger.Warn("vault: %s failed revalidation: %v", cred.ServiceID, probeErr)
		}
	}

	v.mu.RLock()
	snapshot := v.snapshotLocked()
	v.mu.RUnlock()

	if err := v.persist(ctx, snapshot); err != nil {
		return len(stale), fmt.Errorf("persisting vault: %w", err)
	}
	return len(stale), nil
}

// probe runs the live credential check. Descriptors without a test
// endpoint validate successfully by definition.
func (v *Vault) probe(ctx context.Context, desc *domain.ProviderDescriptor, secret string) error {
	if desc.TestEndpoint == "" {
		return nil
	}
	return v.client.Probe(ctx, desc, secret)
}

func (v *Vault) rejectSealed() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.sealed {
		return fmt.Errorf("vault is sealed: %w", domain.ErrDecryptionFailed)
	}
	return nil
}

// snapshotLocked copies the credential map. Caller holds v.mu.
func (v *Vault) snapshotLocked() map[string]domain.Credential {
	out := make(map[string]domain.Credential, len(v.creds))
	for k, c := range v.creds {
		out[k] = c
	}
	return out
}

// persist re-encrypts and writes the store. Serialized to a single
// writer; concurrent mutations for different providers may race here
// and the last successful write wins.
func (v *Vault) persist(ctx context.Context, snapshot map[string]domain.Credential) error {
	v.saveMu.Lock()
	defer v.saveMu.Unlock()
	return v.store.Save(ctx, snapshot)
}
