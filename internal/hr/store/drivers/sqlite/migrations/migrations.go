// Package migrations embeds the SQLite schema migrations into the binary.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
