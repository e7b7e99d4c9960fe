// Package sqlite provides the durable dictionary store backed by an
// embedded SQLite database. The schema is managed through embedded
// migrations applied at open.
package sqlite
