package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"

	"github.com/deppfellow/bookmarks/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings the configured record store to the latest schema.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config, db *Database) error {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return migratePostgres(ctx, logger, cfg)
	case config.DriverSQLite:
		if db == nil || db.SQL == nil {
			return fmt.Errorf("sqlite migration needs an open database")
		}
		if err := MigrateSQLite(ctx, db.SQL); err != nil {
			return err
		}
		logger.Info().Msg("sqlite schema up to date")
		return nil
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// migratePostgres runs the embedded tern migrations over a dedicated
// connection, tracking the version in schema_version.
func migratePostgres(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	conn, err := pgx.Connect(ctx, PostgresDSN(cfg.Database))
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}
