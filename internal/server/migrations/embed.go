// Package migrations embeds the goose schema migrations applied on startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
