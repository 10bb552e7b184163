// Package migrations embeds SQL migration files into the binary.
//
// Importing this package (usually for side effects) registers the files
// with the database package, so migrations run without the SQL files
// being present on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/hydroponics-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
