// Package file loads the provider catalog and language lists from a
// TOML file. Installations without a catalog file run on the embedded
// defaults.
package file
