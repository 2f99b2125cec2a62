package postgres

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/DanielPopoola/coursepay/db"
	"github.com/jackc/tern/v2/migrate"
)

const versionTable = "schema_version"

// Migrate brings the schema to the latest embedded migration and returns the
// names of the migrations it ran. tern holds an advisory lock for the whole
// run, so concurrent migrators wait for each other.
func Migrate(ctx context.Context, database *DB) ([]string, error) {
	conn, err := database.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	m, err := migrate.NewMigrator(ctx, conn.Conn(), versionTable)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	migrations, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		return nil, err
	}
	if err := m.LoadMigrations(migrations); err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	var applied []string
	m.OnStart = func(sequence int32, name, direction, _ string) {
		database.logger.Info("applying migration", "sequence", sequence, "name", name, "direction", direction)
		applied = append(applied, name)
	}

	if err := m.Migrate(ctx); err != nil {
		return applied, fmt.Errorf("migrate: %w", err)
	}
	return applied, nil
}
