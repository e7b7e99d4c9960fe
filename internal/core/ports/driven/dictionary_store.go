package driven

import (
	"context"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
)

// DictionaryStore persists the curated canonical translation table.
//
// Implementations enforce the uniqueness invariant on
// (SourceLang, TargetLang, NormalizedText): a colliding Put keeps the
// entry with the higher confidence, and ties keep the existing entry.
type DictionaryStore interface {
	// Put stores an entry, resolving key collisions by the fixed
	// policy above.
	Put(ctx context.Context, entry domain.DictionaryEntry) error

	// Get retrieves the entry for an exact key.
	// Returns domain.ErrNotFound on a miss.
	Get(ctx context.Context, sourceLang, targetLang, normalizedText string) (*domain.DictionaryEntry, error)

	// FindSimilar returns up to limit entries for the pair ranked by
	// similarity to text. Used for partial matches and suggestions.
	FindSimilar(ctx context.Context, sourceLang, targetLang, text string, limit int) ([]domain.DictionaryEntry, error)

	// Keys returns all normalized keys stored for the pair.
	Keys(ctx context.Context, sourceLang, targetLang string) ([]string, error)
}
