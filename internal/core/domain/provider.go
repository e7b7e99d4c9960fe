package domain

import (
	"regexp"
	"time"
)

// Tier classifies a provider by quality and cost. It orders fallback
// candidates: premium engines are preferred, the generic free tier
// comes last.
type Tier string

const (
	// TierPremium is a paid, high-quality machine translation API.
	TierPremium Tier = "premium"
	// TierSpecialized is an engine tuned for low-resource or
	// indigenous-language nuance.
	TierSpecialized Tier = "specialized"
	// TierCorpus is a sentence/corpus lookup service.
	TierCorpus Tier = "corpus"
	// TierFree is a generic broad-coverage service without a key.
	TierFree Tier = "free"
)

// quality maps tiers to a descending preference order.
var tierQuality = map[Tier]int{
	TierPremium:     3,
	TierSpecialized: 2,
	TierCorpus:      1,
	TierFree:        0,
}

// Quality returns the tier's preference rank. Higher is better.
func (t Tier) Quality() int {
	return tierQuality[t]
}

// Valid reports whether the tier is one of the known classifications.
func (t Tier) Valid() bool {
	_, ok := tierQuality[t]
	return ok
}

// BaselineConfidence returns the confidence assigned to a successful
// translation from a provider of this tier. Dictionary hits carry their
// own per-entry confidence and do not use this.
func (t Tier) BaselineConfidence() float64 {
	switch t {
	case TierPremium:
		return 0.9
	case TierSpecialized:
		return 0.88
	case TierCorpus:
		return 0.8
	default:
		return 0.75
	}
}

// AuthScheme declares how a provider expects its secret on the wire.
// The shape is descriptor metadata so the router never branches on
// service IDs.
type AuthScheme string

const (
	// AuthBearer sends "Authorization: Bearer <secret>".
	AuthBearer AuthScheme = "bearer"
	// AuthAPIKeyHeader sends "X-API-Key: <secret>".
	AuthAPIKeyHeader AuthScheme = "api-key"
	// AuthSubscriptionKey sends "Ocp-Apim-Subscription-Key: <secret>".
	AuthSubscriptionKey AuthScheme = "subscription-key"
	// AuthNone sends no credential at all (keyless public services).
	AuthNone AuthScheme = "none"
)

// RateLimit bounds calls to one provider inside a fixed window.
// A zero MaxRequests means the provider is unlimited.
type RateLimit struct {
	// MaxRequests is the number of calls permitted per window.
	MaxRequests int
	// Window is the fixed time span the counter covers.
	Window time.Duration
}

// Unlimited reports whether the provider declared no rate limit.
func (r RateLimit) Unlimited() bool {
	return r.MaxRequests <= 0
}

// ProviderDescriptor is the immutable configuration for one external
// translation backend. Descriptors are loaded once at startup and passed
// by explicit reference; there is no ambient global catalog.
type ProviderDescriptor struct {
	// ServiceID is the stable identifier, e.g. "openai", "apertium".
	ServiceID string

	// DisplayName is the human-readable provider name.
	DisplayName string

	// BaseURL is the provider's API root.
	BaseURL string

	// KeyFormat is a regular expression the secret must match.
	// Empty means the service is keyless.
	KeyFormat string

	// TestEndpoint is the health-probe path relative to BaseURL.
	// Empty means no probe is possible and credentials are accepted
	// without a live check.
	TestEndpoint string

	// AuthScheme declares the authentication header shape.
	AuthScheme AuthScheme

	// RateLimit bounds calls inside a fixed window.
	RateLimit RateLimit

	// Tier is the quality/cost classification.
	Tier Tier

	// Coverage lists the language tags the provider can serve.
	// Empty means broad coverage (the provider accepts any pair).
	Coverage []string

	// LowResource marks providers tuned for low-resource/indigenous
	// targets. These are ordered ahead of generic providers when the
	// target language carries the low-resource flag.
	LowResource bool

	keyPattern *regexp.Regexp
}

// RequiresKey reports whether the provider needs a stored credential.
func (d *ProviderDescriptor) RequiresKey() bool {
	return d.AuthScheme != AuthNone && d.AuthScheme != ""
}

// CompileKeyFormat compiles and caches the KeyFormat pattern. The
// registry calls it once while descriptors are still private to the
// builder; after that MatchesKeyFormat only reads the cache, so shared
// descriptors are safe for concurrent callers.
func (d *ProviderDescriptor) CompileKeyFormat() error {
	if d.KeyFormat == "" {
		d.keyPattern = nil
		return nil
	}
	pattern, err := regexp.Compile(d.KeyFormat)
	if err != nil {
		return err
	}
	d.keyPattern = pattern
	return nil
}

// MatchesKeyFormat reports whether a secret satisfies the declared
// KeyFormat. A descriptor without a format accepts anything. A
// descriptor built without CompileKeyFormat compiles per call and
// caches nothing.
func (d *ProviderDescriptor) MatchesKeyFormat(secret string) bool {
	if d.KeyFormat == "" {
		return true
	}
	if d.keyPattern != nil {
		return d.keyPattern.MatchString(secret)
	}
	pattern, err := regexp.Compile(d.KeyFormat)
	if err != nil {
		return false
	}
	return pattern.MatchString(secret)
}

// Covers reports whether the provider can plausibly serve the pair.
func (d *ProviderDescriptor) Covers(sourceLang, targetLang string) bool {
	if len(d.Coverage) == 0 {
		return true
	}
	return containsTag(d.Coverage, sourceLang) && containsTag(d.Coverage, targetLang)
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
