// Package migrations embeds the SQL schema of the user store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
