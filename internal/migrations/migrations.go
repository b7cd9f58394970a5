// Package migrations embeds the goose SQL migrations for the API schema.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
