package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/danthegoodman1/bikeshare/gologger"
	migrate "github.com/rubenv/sql-migrate"
)

var (
	//go:embed *.sql
	migrations embed.FS

	ErrMigrationsNotRun = fmt.Errorf("not all migrations applied")

	logger = gologger.NewLogger()
)

func source() migrate.MigrationSource {
	return migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations,
		Root:       ".",
	}
}

func migrationSet() migrate.MigrationSet {
	return migrate.MigrationSet{
		TableName: "migrations",
	}
}

// RunMigrations applies every pending migration and returns how many ran.
func RunMigrations(db *sql.DB) (int, error) {
	ms := migrationSet()
	return ms.Exec(db, "postgres", source(), migrate.Up)
}

// CheckMigrations fails with ErrMigrationsNotRun when the database is behind the embedded migrations.
func CheckMigrations(db *sql.DB) error {
	ms := migrationSet()
	migration, _, err := ms.PlanMigration(db, "postgres", source(), migrate.Up, 0)
	if err != nil {
		return err
	}
	if len(migration) > 0 {
		for _, mig := range migration {
			logger.Warn().Str("migrationID", mig.Id).Msg("missing migration")
		}
		return ErrMigrationsNotRun
	}
	return nil
}
