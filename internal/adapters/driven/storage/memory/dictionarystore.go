package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
	"github.com/tzij-labs/tzij-cli/internal/core/ports/driven"
)

// Ensure DictionaryStore implements the interface.
var _ driven.DictionaryStore = (*DictionaryStore)(nil)

// DictionaryStore is an in-memory implementation of
// driven.DictionaryStore. It backs tests and ephemeral runs; durable
// installs use the sqlite adapter.
type DictionaryStore struct {
	mu      sync.RWMutex
	entries map[domain.DictionaryKey]domain.DictionaryEntry
}

// NewDictionaryStore creates a new in-memory dictionary store.
func NewDictionaryStore() *DictionaryStore {
	return &DictionaryStore{
		entries: make(map[domain.DictionaryKey]domain.DictionaryEntry),
	}
}

// Put stores an entry. A colliding key keeps whichever entry carries
// the higher confidence; ties keep the existing entry.
func (s *DictionaryStore) Put(_ context.Context, entry domain.DictionaryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[entry.Key()]; ok && !entry.Supersedes(&existing) {
		return nil
	}
	s.entries[entry.Key()] = entry
	return nil
}

// Get retrieves the entry for an exact key.
func (s *DictionaryStore) Get(_ context.Context, sourceLang, targetLang, normalizedText string) (*domain.DictionaryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := domain.DictionaryKey{
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		NormalizedText: normalizedText,
	}
	entry, ok := s.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// FindSimilar returns up to limit same-pair entries ranked by token
// overlap with text. Zero-overlap entries rank last but are still
// returned, so a not-found result always has suggestion material when
// the pair has any entries at all.
func (s *DictionaryStore) FindSimilar(_ context.Context, sourceLang, targetLang, text string, limit int) ([]domain.DictionaryEntry, error) {
	s.mu.RLock()
	candidates := s.pairEntriesLocked(sourceLang, targetLang)
	s.mu.RUnlock()

	tokens := strings.Fields(text)
	sort.SliceStable(candidates, func(i, j int) bool {
		return tokenOverlap(candidates[i].NormalizedText, tokens) >
			tokenOverlap(candidates[j].NormalizedText, tokens)
	})

	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// Keys returns all normalized keys stored for the pair, sorted.
func (s *DictionaryStore) Keys(_ context.Context, sourceLang, targetLang string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for key := range s.entries {
		if key.SourceLang == sourceLang && key.TargetLang == targetLang {
			keys = append(keys, key.NormalizedText)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored entries.
func (s *DictionaryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// pairEntriesLocked collects entries for a language pair in a stable
// order. Caller holds at least a read lock.
func (s *DictionaryStore) pairEntriesLocked(sourceLang, targetLang string) []domain.DictionaryEntry {
	var out []domain.DictionaryEntry
	for key, entry := range s.entries {
		if key.SourceLang == sourceLang && key.TargetLang == targetLang {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].NormalizedText < out[j].NormalizedText
	})
	return out
}

// tokenOverlap counts how many input tokens appear in the key.
func tokenOverlap(key string, tokens []string) int {
	n := 0
	for _, tok := range tokens {
		if strings.Contains(key, tok) {
			n++
		}
	}
	return n
}
