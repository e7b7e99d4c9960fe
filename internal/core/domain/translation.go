package domain

import (
	"strings"
	"time"
)

// Translation methods reported on a TranslationResult.
const (
	// MethodDictionary marks a hit in the curated dictionary.
	MethodDictionary = "dictionary"
	// MethodNotFound marks an exhausted fallback chain.
	MethodNotFound = "not_found"
	// methodProviderPrefix prefixes the serving provider's service ID.
	methodProviderPrefix = "provider:"
)

// ProviderMethod returns the method string for a provider-served result.
func ProviderMethod(serviceID string) string {
	return methodProviderPrefix + serviceID
}

// TranslationRequest is one inbound translation. It is ephemeral and
// never persisted.
type TranslationRequest struct {
	// Text is the source text, as supplied by the caller.
	Text string
	// SourceLang and TargetLang are language tags from the catalog.
	SourceLang string
	TargetLang string
	// Options tweaks routing behaviour.
	Options TranslationOptions
}

// TranslationOptions adjusts how a single request is routed.
type TranslationOptions struct {
	// Timeout bounds each individual provider attempt.
	// Zero selects the router's default.
	Timeout time.Duration
}

// NormalizedText returns the request text prepared for dictionary
// matching: trimmed and case-folded. The returned translation is never
// case-folded, only the lookup key.
func (r *TranslationRequest) NormalizedText() string {
	return NormalizeText(r.Text)
}

// NormalizeText trims and case-folds text for dictionary matching.
func NormalizeText(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// TranslationResult is the outcome of one routed request. Ephemeral.
type TranslationResult struct {
	// Translation is the translated text. Empty when Method is
	// MethodNotFound.
	Translation string `json:"translation"`

	// Method records what answered: "dictionary", "provider:<id>",
	// or "not_found".
	Method string `json:"method"`

	// Confidence estimates translation quality in [0,1].
	Confidence float64 `json:"confidence"`

	// CulturalContext is true when the translation came from a
	// specialized-tier provider tuned for low-resource nuance.
	CulturalContext bool `json:"cultural_context,omitempty"`

	// MatchedText is set on partial dictionary matches to the entry
	// text that actually matched.
	MatchedText string `json:"matched_text,omitempty"`

	// Suggestions lists nearby dictionary keys when nothing matched.
	Suggestions []string `json:"suggestions,omitempty"`

	// Timestamp is when the result was produced.
	Timestamp time.Time `json:"timestamp"`
}
