package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLanguageCatalog(t *testing.T) {
	catalog := NewLanguageCatalog([]string{"en", "es", "fr"}, []string{"yua", "quc"})
	require.NotNil(t, catalog)

	assert.True(t, catalog.Knows("en"))
	assert.True(t, catalog.Knows("es"))
	assert.False(t, catalog.Knows("xx"))
}

func TestLanguageCatalog_LowResourceTagsAreKnown(t *testing.T) {
	catalog := NewLanguageCatalog([]string{"en"}, []string{"yua"})

	// Flagging a tag low-resource implies it is a known language.
	assert.True(t, catalog.Knows("yua"))
	assert.True(t, catalog.IsLowResource("yua"))
	assert.False(t, catalog.IsLowResource("en"))
}

func TestLanguageCatalog_Tags(t *testing.T) {
	catalog := NewLanguageCatalog([]string{"en", "es"}, []string{"yua"})

	tags := catalog.Tags()
	assert.Len(t, tags, 3)
	assert.ElementsMatch(t, []string{"en", "es", "yua"}, tags)
}
