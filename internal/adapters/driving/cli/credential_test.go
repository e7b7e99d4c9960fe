package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
)

func TestCredentialSetCmd_StoresKeyFromFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { credentialKey = ""; credentialSkipValidation = false }()

	out, err := execute("credential", "set", "openai", "--key", "sk-test")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored and validated key for openai")

	mock := credentials.(*mockCredentialManager)
	assert.Equal(t, "openai", mock.lastService)
	assert.Equal(t, "sk-test", mock.lastSecret)
	assert.False(t, mock.lastOpts.SkipValidation)
}

func TestCredentialSetCmd_SkipValidation(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { credentialKey = ""; credentialSkipValidation = false }()

	out, err := execute("credential", "set", "openai", "--key", "sk-test", "--skip-validation")
	require.NoError(t, err)
	assert.Contains(t, out, "without validation")

	mock := credentials.(*mockCredentialManager)
	assert.True(t, mock.lastOpts.SkipValidation)
}

func TestCredentialSetCmd_RejectionSurfaces(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() { credentialKey = "" }()

	credentials = &mockCredentialManager{setErr: domain.ErrInvalidKeyFormat}

	_, err := execute("credential", "set", "openai", "--key", "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidKeyFormat)
}

func TestCredentialRemoveCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("credential", "remove", "openai")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed key for openai")
}

func TestCredentialListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("credential", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No credentials stored")
}

func TestCredentialListCmd_NeverShowsSecrets(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	credentials = &mockCredentialManager{
		metas: []domain.CredentialMetadata{{
			ServiceID:     "openai",
			Tier:          domain.TierPremium,
			IsValid:       true,
			UsageCount:    4,
			LastValidated: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		}},
	}

	out, err := execute("credential", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "openai")
	assert.Contains(t, out, "premium")
	assert.Contains(t, out, "valid")
	assert.Contains(t, out, "used 4 times")
}

func TestCredentialRevalidateCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	credentials = &mockCredentialManager{revalidated: 2}

	out, err := execute("credential", "revalidate")
	require.NoError(t, err)
	assert.Contains(t, out, "Re-probed 2 credential(s)")
}

func TestCredentialRevalidateCmd_Fresh(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("credential", "revalidate")
	require.NoError(t, err)
	assert.Contains(t, out, "All credentials are fresh")
}
