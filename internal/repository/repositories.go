package repository

import (
	"github.com/deppfellow/bookmarks/internal/database"
	"github.com/deppfellow/bookmarks/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Bookmark BookmarkRepository
}

// NewRepositories wires the repositories for the open record store.
func NewRepositories(s *server.Server) *Repositories {
	return NewRepositoriesForDatabase(s.DB)
}

// NewRepositoriesForDatabase picks the implementation matching db's driver.
func NewRepositoriesForDatabase(db *database.Database) *Repositories {
	if db.Pool != nil {
		return &Repositories{Bookmark: NewPostgresBookmarkRepository(db.Pool)}
	}
	return &Repositories{Bookmark: NewSQLiteBookmarkRepository(db.SQL)}
}
