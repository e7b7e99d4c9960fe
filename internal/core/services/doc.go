// Package services implements the core translation routing logic.
//
// Services orchestrate domain entities through the driven ports and
// implement the driving ports consumed by the CLI:
//
//   - ProviderRegistry: capability-filtered, ordered candidate lists
//   - RateLimiter: fixed-window per-provider call budgets
//   - Vault: credential storage, validation, and gating
//   - Router: dictionary-first translation with provider fallback
//
// # Import Rules
//
//   - Can Import: domain, ports, logger
//   - Cannot Import: Any adapter package
package services
