package services

import (
	"fmt"
	"sort"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
	"github.com/tzij-labs/tzij-cli/internal/core/ports/driving"
)

// Ensure ProviderRegistry implements the interface.
var _ driving.ProviderCatalog = (*ProviderRegistry)(nil)

// RegistryConfig is the data the registry is built from. It is loaded
// once at startup; the registry itself is immutable afterwards, so
// tests can substitute fake descriptors without touching global state.
type RegistryConfig struct {
	// Providers lists every configured descriptor.
	Providers []domain.ProviderDescriptor

	// Languages is the known-language catalog with low-resource flags.
	Languages *domain.LanguageCatalog

	// OrderOverrides maps a target language tag to an explicit ordered
	// service ID list consulted before the default tier ordering.
	// This keeps the ordering policy in configuration, not code.
	OrderOverrides map[string][]string
}

// ProviderRegistry is the immutable catalog of provider descriptors.
// It answers capability queries and produces the ordered fallback
// candidate list for a language pair.
type ProviderRegistry struct {
	descriptors map[string]*domain.ProviderDescriptor
	ordered     []*domain.ProviderDescriptor
	languages   *domain.LanguageCatalog
	overrides   map[string][]string
}

// NewProviderRegistry builds a registry from configuration. Descriptor
// key formats are compiled eagerly so malformed patterns fail at
// startup rather than at credential registration.
func NewProviderRegistry(cfg RegistryConfig) (*ProviderRegistry, error) {
	if cfg.Languages == nil {
		cfg.Languages = domain.NewLanguageCatalog(nil, nil)
	}

	r := &ProviderRegistry{
		descriptors: make(map[string]*domain.ProviderDescriptor, len(cfg.Providers)),
		ordered:     make([]*domain.ProviderDescriptor, 0, len(cfg.Providers)),
		languages:   cfg.Languages,
		overrides:   cfg.OrderOverrides,
	}

	for i := range cfg.Providers {
		desc := cfg.Providers[i]
		if desc.ServiceID == "" {
			return nil, fmt.Errorf("provider %d: missing service id", i)
		}
		if !desc.Tier.Valid() {
			return nil, fmt.Errorf("provider %s: unknown tier %q", desc.ServiceID, desc.Tier)
		}
		if err := desc.CompileKeyFormat(); err != nil {
			return nil, fmt.Errorf("provider %s: key format: %w", desc.ServiceID, err)
		}
		if _, exists := r.descriptors[desc.ServiceID]; exists {
			return nil, fmt.Errorf("provider %s: %w", desc.ServiceID, domain.ErrAlreadyExists)
		}
		r.descriptors[desc.ServiceID] = &desc
		r.ordered = append(r.ordered, &desc)
	}

	return r, nil
}

// Languages returns the language catalog the registry was built with.
func (r *ProviderRegistry) Languages() *domain.LanguageCatalog {
	return r.languages
}

// Descriptor returns the descriptor for a service ID.
func (r *ProviderRegistry) Descriptor(serviceID string) (*domain.ProviderDescriptor, error) {
	desc, ok := r.descriptors[serviceID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", serviceID, domain.ErrUnknownService)
	}
	return desc, nil
}

// All returns every configured descriptor in configuration order.
func (r *ProviderRegistry) All() []*domain.ProviderDescriptor {
	out := make([]*domain.ProviderDescriptor, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// CapableProviders returns the descriptors that can plausibly serve the
// pair, ordered for fallback.
//
// Ordering policy:
//  1. An explicit per-target override list from configuration wins.
//  2. When the target carries the low-resource flag, providers marked
//     LowResource come before generic high-resource ones.
//  3. Within a band, higher tier quality first; broad-coverage generic
//     providers sort after narrow-coverage ones of the same tier.
//
// The sort is stable, so equal candidates keep configuration order.
// Recency tie-breaking on LastValidated is applied by the router,
// which has the vault view the registry deliberately lacks.
func (r *ProviderRegistry) CapableProviders(sourceLang, targetLang string) []*domain.ProviderDescriptor {
	var capable []*domain.ProviderDescriptor
	for _, desc := range r.ordered {
		if desc.Covers(sourceLang, targetLang) {
			capable = append(capable, desc)
		}
	}

	lowResource := r.languages.IsLowResource(targetLang)
	overrideRank := r.overrideRanks(targetLang)

	sort.SliceStable(capable, func(i, j int) bool {
		return r.rankFor(capable[i], lowResource, overrideRank).
			before(r.rankFor(capable[j], lowResource, overrideRank))
	})

	return capable
}

// providerRank is a candidate's full position in the ordering policy
// for one target language. Candidates whose whole tuple is equal are
// interchangeable as far as the policy is concerned; any reordering
// between them (recency tie-breaking) must stay inside that band.
type providerRank struct {
	overridden  bool
	overridePos int
	lowResource bool
	quality     int
	broad       bool
}

func (a providerRank) before(b providerRank) bool {
	if a.overridden != b.overridden {
		return a.overridden
	}
	if a.overridden && a.overridePos != b.overridePos {
		return a.overridePos < b.overridePos
	}
	if a.lowResource != b.lowResource {
		return a.lowResource
	}
	if a.quality != b.quality {
		return a.quality > b.quality
	}
	// Generic broad-coverage providers last within the tier.
	if a.broad != b.broad {
		return b.broad
	}
	return false
}

func (r *ProviderRegistry) rankFor(desc *domain.ProviderDescriptor, lowResourceTarget bool, overrideRank map[string]int) providerRank {
	rank := providerRank{
		quality: desc.Tier.Quality(),
		broad:   len(desc.Coverage) == 0,
	}
	if pos, ok := overrideRank[desc.ServiceID]; ok {
		rank.overridden = true
		rank.overridePos = pos
	}
	if lowResourceTarget {
		rank.lowResource = desc.LowResource
	}
	return rank
}

// samePriority returns, for one target language, a predicate reporting
// whether two descriptors occupy the same band of the ordering policy.
func (r *ProviderRegistry) samePriority(targetLang string) func(a, b *domain.ProviderDescriptor) bool {
	lowResource := r.languages.IsLowResource(targetLang)
	overrideRank := r.overrideRanks(targetLang)
	return func(a, b *domain.ProviderDescriptor) bool {
		return r.rankFor(a, lowResource, overrideRank) == r.rankFor(b, lowResource, overrideRank)
	}
}

func (r *ProviderRegistry) overrideRanks(targetLang string) map[string]int {
	ids, ok := r.overrides[targetLang]
	if !ok {
		return nil
	}
	ranks := make(map[string]int, len(ids))
	for i, id := range ids {
		ranks[id] = i
	}
	return ranks
}
