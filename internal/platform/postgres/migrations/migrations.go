// Package migrations embeds the goose SQL migrations so the server
// binary carries its own schema. Pass FS to goose.SetBaseFS and use "."
// as the migrations directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
