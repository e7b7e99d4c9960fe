package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
	"github.com/tzij-labs/tzij-cli/internal/core/ports/driven"
	"github.com/tzij-labs/tzij-cli/internal/core/ports/driving"
	"github.com/tzij-labs/tzij-cli/internal/logger"
)

// Ensure Router implements the interface.
var _ driving.Translator = (*Router)(nil)

// DefaultAttemptTimeout bounds each individual provider call.
const DefaultAttemptTimeout = 8 * time.Second

// partialConfidenceCap is the ceiling applied to partial dictionary
// matches so they never outrank an exact hit.
const partialConfidenceCap = 0.7

// suggestionLimit is how many nearby dictionary keys a not-found
// result carries.
const suggestionLimit = 5

// Router is the translation request entry point. It consults the
// dictionary first, then walks the ordered provider fallback chain
// gated by the rate limiter and the credential vault.
//
// The router is stateless per request and safe under unbounded
// concurrent callers; the only shared mutable state lives in the
// limiter and the vault.
type Router struct {
	dict     driven.DictionaryStore
	registry *ProviderRegistry
	limiter  *RateLimiter
	vault    *Vault
	client   driven.ProviderClient

	attemptTimeout time.Duration
	now            func() time.Time
}

// NewRouter creates a translation router.
func NewRouter(
	dict driven.DictionaryStore,
	registry *ProviderRegistry,
	limiter *RateLimiter,
	vault *Vault,
	client driven.ProviderClient,
) *Router {
	return &Router{
		dict:           dict,
		registry:       registry,
		limiter:        limiter,
		vault:          vault,
		client:         client,
		attemptTimeout: DefaultAttemptTimeout,
		now:            time.Now,
	}
}

// Translate routes one request:
// validate, normalize, dictionary, provider chain, suggestions.
//
// Dictionary hits are authoritative and bypass providers entirely.
// Rate-limit and credential denials skip a candidate silently; only
// domain.ErrInvalidInput and domain.ErrNotFound reach the caller.
func (r *Router) Translate(ctx context.Context, req domain.TranslationRequest) (*domain.TranslationResult, error) {
	logger.Section("Translation")
	logger.Debug("request: %s -> %s, %d bytes", req.SourceLang, req.TargetLang, len(req.Text))

	if err := r.validate(&req); err != nil {
		return nil, err
	}

	normalized := req.NormalizedText()

	// Exact dictionary match: cheap, deterministic, no external cost.
	if entry, err := r.dict.Get(ctx, req.SourceLang, req.TargetLang, normalized); err == nil {
		logger.Debug("dictionary hit: %q", entry.Translation)
		return &domain.TranslationResult{
			Translation: entry.Translation,
			Method:      domain.MethodDictionary,
			Confidence:  entry.Confidence,
			Timestamp:   r.now(),
		}, nil
	}

	if result := r.tryProviders(ctx, req); result != nil {
		return result, nil
	}

	// Partial dictionary match: substring containment, longest wins,
	// confidence capped so it never outranks an exact entry.
	if result := r.tryPartialMatch(ctx, req, normalized); result != nil {
		return result, nil
	}

	suggestions := r.suggestions(ctx, req, normalized)
	result := &domain.TranslationResult{
		Method:      domain.MethodNotFound,
		Suggestions: suggestions,
		Timestamp:   r.now(),
	}
	return result, fmt.Errorf("no translation for %q (%s -> %s): %w",
		req.Text, req.SourceLang, req.TargetLang, domain.ErrNotFound)
}

// validate rejects empty text and unknown language tags. Terminal:
// no fallback is attempted for invalid input.
func (r *Router) validate(req *domain.TranslationRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return fmt.Errorf("empty text: %w", domain.ErrInvalidInput)
	}
	languages := r.registry.Languages()
	if !languages.Knows(req.SourceLang) {
		return fmt.Errorf("unknown source language %q: %w", req.SourceLang, domain.ErrInvalidInput)
	}
	if !languages.Knows(req.TargetLang) {
		return fmt.Errorf("unknown target language %q: %w", req.TargetLang, domain.ErrInvalidInput)
	}
	return nil
}

// tryProviders walks the ordered candidate chain. Each attempt runs
// under its own timeout; a transient failure moves on to the next
// candidate with no same-provider retry, so worst-case latency stays
// bounded by candidates x timeout. A cancelled parent context aborts
// the remaining chain.
func (r *Router) tryProviders(ctx context.Context, req domain.TranslationRequest) *domain.TranslationResult {
	candidates := r.registry.CapableProviders(req.SourceLang, req.TargetLang)
	r.breakTies(req.TargetLang, candidates)
	logger.Debug("candidates: %d", len(candidates))

	timeout := req.Options.Timeout
	if timeout <= 0 {
		timeout = r.attemptTimeout
	}

	for _, desc := range candidates {
		if ctx.Err() != nil {
			logger.Debug("deadline reached, aborting fallback chain")
			return nil
		}

		if !r.limiter.Allow(desc.ServiceID) {
			logger.Debug("%s: window exhausted, skipping", desc.ServiceID)
			continue
		}

		secret := ""
		if desc.RequiresKey() {
			s, err := r.vault.CredentialFor(ctx, desc.ServiceID)
			if err != nil {
				logger.Debug("%s: %v, skipping", desc.ServiceID, err)
				continue
			}
			secret = s
		}

		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		translation, err := r.client.Invoke(attemptCtx, desc, secret, req)
		cancel()
		if err != nil {
			logger.Warn("%s: %v", desc.ServiceID, err)
			continue
		}

		logger.Info("translated by %s", desc.ServiceID)
		return &domain.TranslationResult{
			Translation:     translation,
			Method:          domain.ProviderMethod(desc.ServiceID),
			Confidence:      desc.Tier.BaselineConfidence(),
			CulturalContext: desc.Tier == domain.TierSpecialized,
			Timestamp:       r.now(),
		}
	}
	return nil
}

// breakTies reorders candidates by the recency of their credential's
// last successful validation. Recency only applies inside a run of
// candidates sharing the same ordering band; the registry's banding
// (overrides, low-resource, tier, coverage) is never crossed.
func (r *Router) breakTies(targetLang string, candidates []*domain.ProviderDescriptor) {
	same := r.registry.samePriority(targetLang)
	for start := 0; start < len(candidates); {
		end := start + 1
		for end < len(candidates) && same(candidates[start], candidates[end]) {
			end++
		}
		run := candidates[start:end]
		sort.SliceStable(run, func(i, j int) bool {
			return r.vault.LastValidated(run[i].ServiceID).After(r.vault.LastValidated(run[j].ServiceID))
		})
		start = end
	}
}

// tryPartialMatch looks for a dictionary entry containing the input
// (or contained by it), longest match first.
func (r *Router) tryPartialMatch(ctx context.Context, req domain.TranslationRequest, normalized string) *domain.TranslationResult {
	similar, err := r.dict.FindSimilar(ctx, req.SourceLang, req.TargetLang, normalized, suggestionLimit)
	if err != nil || len(similar) == 0 {
		return nil
	}

	best := bestContainment(similar, normalized)
	if best == nil {
		return nil
	}

	confidence := best.Confidence
	if confidence > partialConfidenceCap {
		confidence = partialConfidenceCap
	}
	logger.Debug("partial dictionary match on %q", best.NormalizedText)
	return &domain.TranslationResult{
		Translation: best.Translation,
		Method:      domain.MethodDictionary,
		Confidence:  confidence,
		MatchedText: best.NormalizedText,
		Timestamp:   r.now(),
	}
}

// bestContainment picks the longest entry key that contains or is
// contained by the normalized input.
func bestContainment(entries []domain.DictionaryEntry, normalized string) *domain.DictionaryEntry {
	var best *domain.DictionaryEntry
	for i := range entries {
		key := entries[i].NormalizedText
		if !strings.Contains(normalized, key) && !strings.Contains(key, normalized) {
			continue
		}
		if best == nil || len(key) > len(best.NormalizedText) {
			best = &entries[i]
		}
	}
	return best
}

// suggestions ranks same-pair dictionary keys by token overlap with
// the input.
func (r *Router) suggestions(ctx context.Context, req domain.TranslationRequest, normalized string) []string {
	similar, err := r.dict.FindSimilar(ctx, req.SourceLang, req.TargetLang, normalized, suggestionLimit)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(similar))
	for _, entry := range similar {
		out = append(out, entry.NormalizedText)
	}
	return out
}
