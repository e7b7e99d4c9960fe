package driven

import (
	"context"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
)

// ProviderClient performs the outbound calls to external translation
// backends. The authentication header shape comes from descriptor
// metadata; implementations never branch on service IDs.
type ProviderClient interface {
	// Probe checks credential validity against the descriptor's test
	// endpoint. A nil error indicates a 2xx response. Descriptors
	// without a test endpoint probe successfully by definition.
	Probe(ctx context.Context, desc *domain.ProviderDescriptor, secret string) error

	// Invoke requests a translation. Transient failures (timeout, 5xx)
	// surface as domain.ErrProviderUnavailable; declared quota
	// exhaustion as domain.ErrRateLimited. Both make the router move
	// to the next candidate.
	Invoke(ctx context.Context, desc *domain.ProviderDescriptor, secret string, req domain.TranslationRequest) (string, error)
}
