// Package db embeds the SQL migrations so the binary and tests share one copy.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
