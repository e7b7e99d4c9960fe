package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
//
// Only ErrInvalidInput and ErrNotFound ever reach the caller of
// Translate. Everything else is an internal signal that drives the
// fallback chain or credential management and is logged, not surfaced.
var (
	// ErrInvalidInput indicates empty text or an unknown language tag.
	// Terminal: no fallback is attempted.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates every capable candidate was exhausted
	// (or none existed) for the requested language pair.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// Credential Errors.

	// ErrUnknownService indicates a service ID not present in the
	// provider registry.
	ErrUnknownService = errors.New("unknown service")

	// ErrInvalidKeyFormat indicates a secret that does not match the
	// provider's declared key format. Raised only at SetCredential time.
	ErrInvalidKeyFormat = errors.New("invalid key format")

	// ErrValidationFailed indicates the live probe against the provider's
	// test endpoint rejected the secret. Raised only at SetCredential time.
	ErrValidationFailed = errors.New("credential validation failed")

	// ErrNoCredential indicates no credential is stored for a service
	// that requires one.
	ErrNoCredential = errors.New("no credential stored")

	// ErrDecryptionFailed indicates the persisted vault could not be
	// decrypted. The vault degrades to a credential-less mode instead of
	// crashing the process.
	ErrDecryptionFailed = errors.New("vault decryption failed")

	// ErrMasterSecretRequired indicates no master secret was supplied.
	// Deriving one from machine identifiers is deliberately not supported.
	ErrMasterSecretRequired = errors.New("master secret required")

	// Routing Errors.

	// ErrRateLimited indicates the provider's rate-limit window is
	// exhausted. Absorbed by the router: the candidate is skipped.
	ErrRateLimited = errors.New("rate limited")

	// ErrProviderUnavailable indicates a transient provider failure
	// (timeout, 5xx). Absorbed by the router as a fallback trigger.
	ErrProviderUnavailable = errors.New("provider unavailable")
)
