package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvidersListCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("providers", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "openai")
	assert.Contains(t, out, "maya_lexicon")
	assert.Contains(t, out, "keyless")
	assert.Contains(t, out, "covers: en, es, yua")
}

func TestProvidersChainCmd_LowResourceFirst(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("providers", "chain", "en", "yua")
	require.NoError(t, err)
	assert.Contains(t, out, "1. maya_lexicon")
}

func TestProvidersChainCmd_HighResourcePair(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("providers", "chain", "en", "es")
	require.NoError(t, err)
	assert.Contains(t, out, "openai")
	assert.Contains(t, out, "apertium")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute("version")
	require.NoError(t, err)
	assert.Contains(t, out, "tzij version")
}
