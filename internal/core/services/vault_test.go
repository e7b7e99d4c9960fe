package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
)

func newTestVault(t *testing.T) (*Vault, *fakeVaultStore, *fakeProviderClient) {
	t.Helper()
	registry := newTestRegistry(t)
	limiter := NewRateLimiter(registry)
	store := newFakeVaultStore()
	client := newFakeProviderClient()

	vault := NewVault(store, registry, limiter, client)
	require.NoError(t, vault.Initialize(context.Background()))
	return vault, store, client
}

func TestVault_SetCredential_UnknownService(t *testing.T) {
	vault, _, _ := newTestVault(t)

	err := vault.SetCredential(context.Background(), "nope", "secret", domain.SetCredentialOptions{})
	assert.ErrorIs(t, err, domain.ErrUnknownService)
}

func TestVault_SetCredential_RejectsBadFormat(t *testing.T) {
	vault, store, _ := newTestVault(t)

	err := vault.SetCredential(context.Background(), "openai", "not-a-key", domain.SetCredentialOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidKeyFormat)
	assert.Zero(t, store.saves)
}

func TestVault_SetCredential_ProbeFailureRejects(t *testing.T) {
	vault, store, client := newTestVault(t)
	client.probeErrs["openai"] = domain.ErrProviderUnavailable

	err := vault.SetCredential(context.Background(), "openai", "sk-abcd1234", domain.SetCredentialOptions{})
	assert.ErrorIs(t, err, domain.ErrValidationFailed)
	assert.Zero(t, store.saves)
}

func TestVault_SetCredential_SkipValidationStoresFlaggedInvalid(t *testing.T) {
	vault, store, client := newTestVault(t)
	client.probeErrs["openai"] = domain.ErrProviderUnavailable

	err := vault.SetCredential(context.Background(), "openai", "whatever-format",
		domain.SetCredentialOptions{SkipValidation: true})
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves)

	meta := vault.Metadata(context.Background())
	require.Len(t, meta, 1)
	assert.False(t, meta[0].IsValid)
	assert.True(t, meta[0].LastValidated.IsZero())
	// Validation was skipped entirely, no probe went out.
	assert.Zero(t, client.probes["openai"])
}

func TestVault_SetCredential_Success(t *testing.T) {
	vault, store, client := newTestVault(t)

	err := vault.SetCredential(context.Background(), "openai", "sk-abcd1234", domain.SetCredentialOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, store.saves)
	assert.Equal(t, 1, client.probes["openai"])

	meta := vault.Metadata(context.Background())
	require.Len(t, meta, 1)
	assert.Equal(t, "openai", meta[0].ServiceID)
	assert.Equal(t, domain.TierPremium, meta[0].Tier)
	assert.True(t, meta[0].IsValid)
	assert.False(t, meta[0].LastValidated.IsZero())
}

func TestVault_SetCredential_NoTestEndpointValidatesByDefinition(t *testing.T) {
	vault, _, client := newTestVault(t)

	// maya_lexicon declares no test endpoint in the test registry.
	err := vault.SetCredential(context.Background(), "maya_lexicon", "any-key", domain.SetCredentialOptions{})
	require.NoError(t, err)
	assert.Zero(t, client.probes["maya_lexicon"])
}

func TestVault_CredentialFor_UpdatesUsage(t *testing.T) {
	vault, _, _ := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, vault.SetCredential(ctx, "openai", "sk-abcd1234", domain.SetCredentialOptions{}))

	secret, err := vault.CredentialFor(ctx, "openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-abcd1234", secret)

	_, err = vault.CredentialFor(ctx, "openai")
	require.NoError(t, err)

	meta := vault.Metadata(ctx)
	require.Len(t, meta, 1)
	assert.Equal(t, int64(2), meta[0].UsageCount)
	assert.False(t, meta[0].LastUsed.IsZero())
}

func TestVault_CredentialFor_Missing(t *testing.T) {
	vault, _, _ := newTestVault(t)

	_, err := vault.CredentialFor(context.Background(), "openai")
	assert.ErrorIs(t, err, domain.ErrNoCredential)
}

func TestVault_CredentialFor_RateLimited(t *testing.T) {
	registry := limitedRegistry(t, 1, time.Minute)
	limiter := NewRateLimiter(registry)
	store := newFakeVaultStore()
	client := newFakeProviderClient()
	vault := NewVault(store, registry, limiter, client)
	ctx := context.Background()
	require.NoError(t, vault.Initialize(ctx))
	require.NoError(t, vault.SetCredential(ctx, "limited", "k", domain.SetCredentialOptions{SkipValidation: true}))

	// Consume the whole window through the router-side gate.
	require.True(t, limiter.Allow("limited"))

	_, err := vault.CredentialFor(ctx, "limited")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestVault_RemoveCredential(t *testing.T) {
	vault, store, _ := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, vault.SetCredential(ctx, "openai", "sk-abcd1234", domain.SetCredentialOptions{}))

	require.NoError(t, vault.RemoveCredential(ctx, "openai"))
	assert.Empty(t, vault.Metadata(ctx))
	assert.Equal(t, 2, store.saves)

	err := vault.RemoveCredential(ctx, "openai")
	assert.ErrorIs(t, err, domain.ErrNoCredential)
}

func TestVault_Initialize_DecryptionFailureDegrades(t *testing.T) {
	registry := newTestRegistry(t)
	limiter := NewRateLimiter(registry)
	store := newFakeVaultStore()
	store.loadErr = domain.ErrDecryptionFailed
	vault := NewVault(store, registry, limiter, newFakeProviderClient())
	ctx := context.Background()

	// Must not fail: the vault degrades to credential-less mode.
	require.NoError(t, vault.Initialize(ctx))
	assert.True(t, vault.Sealed())
	assert.Empty(t, vault.Metadata(ctx))

	// Mutations are refused so the undecryptable blob survives.
	err := vault.SetCredential(ctx, "openai", "sk-abcd1234", domain.SetCredentialOptions{})
	assert.ErrorIs(t, err, domain.ErrDecryptionFailed)
	assert.Zero(t, store.saves)
}

func TestVault_RevalidateStale(t *testing.T) {
	vault, _, client := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, vault.SetCredential(ctx, "openai", "sk-abcd1234", domain.SetCredentialOptions{}))

	// Freshly validated: nothing to do.
	n, err := vault.RevalidateStale(ctx, RevalidateAfter)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Age the validation stamp past the threshold.
	vault.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	client.probeErrs["openai"] = domain.ErrProviderUnavailable

	n, err = vault.RevalidateStale(ctx, RevalidateAfter)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	meta := vault.Metadata(ctx)
	require.Len(t, meta, 1)
	assert.False(t, meta[0].IsValid)
}

func TestVault_Metadata_NeverExposesSecret(t *testing.T) {
	vault, _, _ := newTestVault(t)
	ctx := context.Background()
	require.NoError(t, vault.SetCredential(ctx, "openai", "sk-abcd1234", domain.SetCredentialOptions{}))

	for _, meta := range vault.Metadata(ctx) {
		assert.NotContains(t, []string{meta.ServiceID, string(meta.Tier)}, "sk-abcd1234")
	}
}
