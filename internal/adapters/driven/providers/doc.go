// Package providers implements the outbound HTTP adapter for external
// translation backends. One client serves every provider; per-provider
// behaviour (auth header shape, probe endpoint, pacing) comes from
// descriptor metadata.
package providers
