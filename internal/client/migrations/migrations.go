// Package migrations embeds the SQL schema of the local credential store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
