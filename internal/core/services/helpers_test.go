package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
	"github.com/tzij-labs/tzij-cli/internal/core/ports/driven"
)

// fakeVaultStore keeps the credential map in memory.
type fakeVaultStore struct {
	mu      sync.Mutex
	creds   map[string]domain.Credential
	loadErr error
	saves   int
}

var _ driven.VaultStore = (*fakeVaultStore)(nil)

func newFakeVaultStore() *fakeVaultStore {
	return &fakeVaultStore{creds: make(map[string]domain.Credential)}
}

func (s *fakeVaultStore) Load(_ context.Context) (map[string]domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make(map[string]domain.Credential, len(s.creds))
	for k, v := range s.creds {
		out[k] = v
	}
	return out, nil
}

func (s *fakeVaultStore) Save(_ context.Context, creds map[string]domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.creds = creds
	return nil
}

// fakeProviderClient counts calls and serves canned translations.
type fakeProviderClient struct {
	mu           sync.Mutex
	translations map[string]string // serviceID -> translation
	invokeErrs   map[string]error  // serviceID -> forced invoke error
	probeErrs    map[string]error  // serviceID -> forced probe error
	invokes      map[string]int
	probes       map[string]int
	lastSecret   map[string]string
}

var _ driven.ProviderClient = (*fakeProviderClient)(nil)

func newFakeProviderClient() *fakeProviderClient {
	return &fakeProviderClient{
		translations: make(map[string]string),
		invokeErrs:   make(map[string]error),
		probeErrs:    make(map[string]error),
		invokes:      make(map[string]int),
		probes:       make(map[string]int),
		lastSecret:   make(map[string]string),
	}
}

func (c *fakeProviderClient) Probe(_ context.Context, desc *domain.ProviderDescriptor, secret string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.probes[desc.ServiceID]++
	c.lastSecret[desc.ServiceID] = secret
	return c.probeErrs[desc.ServiceID]
}

func (c *fakeProviderClient) Invoke(_ context.Context, desc *domain.ProviderDescriptor, secret string, _ domain.TranslationRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invokes[desc.ServiceID]++
	c.lastSecret[desc.ServiceID] = secret
	if err := c.invokeErrs[desc.ServiceID]; err != nil {
		return "", err
	}
	if tr, ok := c.translations[desc.ServiceID]; ok {
		return tr, nil
	}
	return "", fmt.Errorf("%s: %w", desc.ServiceID, domain.ErrProviderUnavailable)
}

func (c *fakeProviderClient) invokeCount(serviceID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invokes[serviceID]
}

// fakeDictionary is a map-backed dictionary store with the same
// collision policy and ranking the real adapters implement.
type fakeDictionary struct {
	mu      sync.RWMutex
	entries map[domain.DictionaryKey]domain.DictionaryEntry
}

var _ driven.DictionaryStore = (*fakeDictionary)(nil)

func newFakeDictionary() *fakeDictionary {
	return &fakeDictionary{entries: make(map[domain.DictionaryKey]domain.DictionaryEntry)}
}

func (d *fakeDictionary) Put(_ context.Context, entry domain.DictionaryEntry) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if existing, ok := d.entries[entry.Key()]; ok && !entry.Supersedes(&existing) {
		return nil
	}
	d.entries[entry.Key()] = entry
	return nil
}

func (d *fakeDictionary) Get(_ context.Context, src, tgt, norm string) (*domain.DictionaryEntry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	key := domain.DictionaryKey{SourceLang: src, TargetLang: tgt, NormalizedText: norm}
	if entry, ok := d.entries[key]; ok {
		return &entry, nil
	}
	return nil, domain.ErrNotFound
}

func (d *fakeDictionary) FindSimilar(_ context.Context, src, tgt, text string, limit int) ([]domain.DictionaryEntry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []domain.DictionaryEntry
	for key, entry := range d.entries {
		if key.SourceLang == src && key.TargetLang == tgt {
			out = append(out, entry)
		}
	}
	tokens := strings.Fields(text)
	sort.SliceStable(out, func(i, j int) bool {
		return overlap(out[i].NormalizedText, tokens) > overlap(out[j].NormalizedText, tokens)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (d *fakeDictionary) Keys(_ context.Context, src, tgt string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []string
	for key := range d.entries {
		if key.SourceLang == src && key.TargetLang == tgt {
			out = append(out, key.NormalizedText)
		}
	}
	sort.Strings(out)
	return out, nil
}

func overlap(key string, tokens []string) int {
	n := 0
	for _, tok := range tokens {
		if strings.Contains(key, tok) {
			n++
		}
	}
	return n
}

// testCatalog is the language catalog shared by service tests.
func testCatalog() *domain.LanguageCatalog {
	return domain.NewLanguageCatalog(
		[]string{"en", "es", "fr", "yue"},
		[]string{"yua", "quc", "nah"},
	)
}
