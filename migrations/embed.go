// Package migrations embeds the schema files applied by database.Migrate.
package migrations

import "embed"

// Files holds every {version}_{description}.sql file.
//
//go:embed *.sql
var Files embed.FS
