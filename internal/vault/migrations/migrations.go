// Package migrations embeds the vault's SQL schema migrations, applied with
// goose on every open.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
