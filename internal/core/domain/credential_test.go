package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredential_Metadata_OmitsSecret(t *testing.T) {
	cred := &Credential{
		ID:            "cred-1",
		ServiceID:     "openai",
		Secret:        "sk-super-secret",
		Tier:          TierPremium,
		AddedAt:       time.Now(),
		UsageCount:    7,
		LastValidated: time.Now(),
		IsValid:       true,
	}

	meta := cred.Metadata()
	assert.Equal(t, "openai", meta.ServiceID)
	assert.Equal(t, int64(7), meta.UsageCount)
	assert.True(t, meta.IsValid)

	// The serialized metadata must never contain the secret material.
	data, err := json.Marshal(meta)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-super-secret")
}

func TestCredential_Stale(t *testing.T) {
	now := time.Now()
	maxAge := 7 * 24 * time.Hour

	fresh := &Credential{LastValidated: now.Add(-time.Hour)}
	assert.False(t, fresh.Stale(maxAge, now))

	old := &Credential{LastValidated: now.Add(-8 * 24 * time.Hour)}
	assert.True(t, old.Stale(maxAge, now))

	// Never validated counts as stale.
	never := &Credential{}
	assert.True(t, never.Stale(maxAge, now))
}
