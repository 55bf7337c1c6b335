// Package migrations contains embedded SQL migration files for both stores.
package migrations

import "embed"

// Postgres holds the schema for base rows, the source table and submission history.
//
//go:embed postgres/*.sql
var Postgres embed.FS

// Drafts holds the schema for the embedded draft store.
//
//go:embed drafts/*.sql
var Drafts embed.FS
