// Package vault persists the credential map encrypted at rest.
package vault
