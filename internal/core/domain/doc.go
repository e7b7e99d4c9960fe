// Package domain defines the core business entities for Tzij.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ProviderDescriptor: Static configuration for a translation backend
//   - Credential: A stored provider secret with usage metadata
//   - DictionaryEntry: A curated canonical translation
//   - TranslationRequest / TranslationResult: One routed translation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
