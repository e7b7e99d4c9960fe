package domain

// DictionaryEntry is one curated canonical translation. Entries are
// loaded at startup or added through the explicit enrichment path;
// the router never writes them.
//
// Uniqueness invariant: at most one entry per
// (SourceLang, TargetLang, NormalizedText). Stores resolve collisions
// by the fixed policy "higher confidence wins, ties keep the existing
// entry".
type DictionaryEntry struct {
	// SourceLang and TargetLang are language tags from the catalog.
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`

	// NormalizedText is the trimmed, case-folded lookup key.
	NormalizedText string `json:"normalized_text"`

	// Translation is the canonical translation, case preserved.
	Translation string `json:"translation"`

	// Confidence estimates entry quality in [0,1]. Curated entries
	// typically carry 0.95.
	Confidence float64 `json:"confidence"`
}

// Key returns the uniqueness key for the entry.
func (e *DictionaryEntry) Key() DictionaryKey {
	return DictionaryKey{
		SourceLang:     e.SourceLang,
		TargetLang:     e.TargetLang,
		NormalizedText: e.NormalizedText,
	}
}

// DictionaryKey identifies one dictionary entry.
type DictionaryKey struct {
	SourceLang     string
	TargetLang     string
	NormalizedText string
}

// Supersedes reports whether this entry replaces existing under the
// collision policy: higher confidence wins, ties keep the existing.
func (e *DictionaryEntry) Supersedes(existing *DictionaryEntry) bool {
	return e.Confidence > existing.Confidence
}
