package driving

import (
	"context"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
)

// Translator routes a translation request through the dictionary and
// the ordered provider fallback chain.
//
// Error contract: only domain.ErrInvalidInput and domain.ErrNotFound
// are returned. A not-found result still carries suggestions drawn
// from the dictionary.
type Translator interface {
	Translate(ctx context.Context, req domain.TranslationRequest) (*domain.TranslationResult, error)
}
