package driving

import "github.com/tzij-labs/tzij-cli/internal/core/domain"

// ProviderCatalog exposes the provider registry for inspection and
// candidate selection.
type ProviderCatalog interface {
	// Descriptor returns the descriptor for a service ID.
	// Returns domain.ErrUnknownService when the ID is not configured.
	Descriptor(serviceID string) (*domain.ProviderDescriptor, error)

	// CapableProviders returns the ordered, capability-filtered
	// candidate list for a language pair.
	CapableProviders(sourceLang, targetLang string) []*domain.ProviderDescriptor

	// All returns every configured descriptor.
	All() []*domain.ProviderDescriptor
}
