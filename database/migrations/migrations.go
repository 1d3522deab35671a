// Package migrations embeds the schema files for each supported database.
package migrations

import "embed"

//go:embed postgres/*.sql oracle/*.sql
var FS embed.FS
