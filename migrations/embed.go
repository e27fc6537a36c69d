// Package migrations embeds SQL migration files into the binary.
//
// This allows Feedgate to run migrations without the SQL files being
// present on the filesystem - they're compiled into the executable.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
