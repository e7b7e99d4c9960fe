package domain

// LanguageCatalog is the set of language tags the router accepts,
// together with the per-tag low-resource/indigenous flag used for
// provider ordering. It is configuration data constructed once at
// startup, never mutated afterwards.
type LanguageCatalog struct {
	known       map[string]struct{}
	lowResource map[string]struct{}
}

// NewLanguageCatalog builds a catalog from the known tag list and the
// subset flagged low-resource. Flagged tags are implicitly known.
func NewLanguageCatalog(known, lowResource []string) *LanguageCatalog {
	c := &LanguageCatalog{
		known:       make(map[string]struct{}, len(known)+len(lowResource)),
		lowResource: make(map[string]struct{}, len(lowResource)),
	}
	for _, tag := range known {
		c.known[tag] = struct{}{}
	}
	for _, tag := range lowResource {
		c.known[tag] = struct{}{}
		c.lowResource[tag] = struct{}{}
	}
	return c
}

// Knows reports whether the tag belongs to the configured language set.
func (c *LanguageCatalog) Knows(tag string) bool {
	_, ok := c.known[tag]
	return ok
}

// IsLowResource reports whether the tag carries the
// low-resource/indigenous flag.
func (c *LanguageCatalog) IsLowResource(tag string) bool {
	_, ok := c.lowResource[tag]
	return ok
}

// Tags returns all known tags. The slice is a copy.
func (c *LanguageCatalog) Tags() []string {
	tags := make([]string, 0, len(c.known))
	for tag := range c.known {
		tags = append(tags, tag)
	}
	return tags
}
