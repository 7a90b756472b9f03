package migrations

import "embed"

// FS holds the schema, applied in file name order.
//
//go:embed *.sql
var FS embed.FS
