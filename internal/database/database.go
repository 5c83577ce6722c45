// Package database opens the record store.
//
// Two engines are supported, selected by database.driver:
//   - postgres: a pgx connection pool with optional New Relic and local
//     SQL tracing.
//   - sqlite: database/sql over go-sqlite3, used for single-node setups
//     and the repository tests.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/deppfellow/bookmarks/internal/config"
	loggerConfig "github.com/deppfellow/bookmarks/internal/logger"
)

// DatabasePingTimeout is how long startup waits for the first ping.
const DatabasePingTimeout = 10 * time.Second

// Database holds exactly one open handle: Pool for postgres, SQL for
// sqlite.
type Database struct {
	Driver string
	Pool   *pgxpool.Pool
	SQL    *sql.DB
	log    *zerolog.Logger
}

// New opens the configured record store and verifies it is reachable.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	db := &Database{Driver: cfg.Database.Driver, log: logger}

	var err error
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db.Pool, err = newPostgresPool(cfg, logger, loggerService)
	case config.DriverSQLite:
		db.SQL, err = OpenSQLite(cfg.Database.Path)
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", db.Driver).Msg("connected to the database")

	return db, nil
}

// NewFromSQL wraps an already opened sqlite handle.
func NewFromSQL(sqlDB *sql.DB, logger *zerolog.Logger) *Database {
	return &Database{Driver: config.DriverSQLite, SQL: sqlDB, log: logger}
}

// Ping checks the underlying handle.
func (db *Database) Ping(ctx context.Context) error {
	if db.Pool != nil {
		return db.Pool.Ping(ctx)
	}
	if db.SQL != nil {
		return db.SQL.PingContext(ctx)
	}
	return fmt.Errorf("database is not open")
}

// Close releases the handle.
func (db *Database) Close() error {
	if db.log != nil {
		db.log.Info().Str("driver", db.Driver).Msg("closing database connection")
	}

	if db.Pool != nil {
		db.Pool.Close()
		return nil
	}
	if db.SQL != nil {
		return db.SQL.Close()
	}
	return nil
}
