package migrations

import "embed"

// FS holds the goose SQL migrations of general_messages.
//
//go:embed *.sql
var FS embed.FS
