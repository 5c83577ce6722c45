package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	// Registers the "sqlite3" database/sql driver.
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

// OpenSQLite opens a sqlite database at path. ":memory:" gives a private
// in-memory database; the pool is pinned to one connection so every query
// sees the same data.
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// MigrateSQLite applies the embedded sqlite schema. It is idempotent.
func MigrateSQLite(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("applying sqlite schema: %w", err)
	}
	return nil
}
