package migrations

import "embed"

// FS contains the golang-migrate migrations for PostgreSQL content storage.
//
//go:embed *.sql
var FS embed.FS
