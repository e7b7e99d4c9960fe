package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDictionaryEntry_Key(t *testing.T) {
	entry := &DictionaryEntry{
		SourceLang:     "en",
		TargetLang:     "yua",
		NormalizedText: "hello",
		Translation:    "ba'ax ka wa'alik",
		Confidence:     0.95,
	}

	key := entry.Key()
	assert.Equal(t, "en", key.SourceLang)
	assert.Equal(t, "yua", key.TargetLang)
	assert.Equal(t, "hello", key.NormalizedText)
}

func TestDictionaryEntry_Supersedes(t *testing.T) {
	existing := &DictionaryEntry{Confidence: 0.8}

	higher := &DictionaryEntry{Confidence: 0.9}
	assert.True(t, higher.Supersedes(existing))

	lower := &DictionaryEntry{Confidence: 0.7}
	assert.False(t, lower.Supersedes(existing))

	// Ties keep the existing entry.
	tie := &DictionaryEntry{Confidence: 0.8}
	assert.False(t, tie.Supersedes(existing))
}
