// Package repository handles all interactions with the record store.
//
// Queries are built once with squirrel and executed by a driver specific
// implementation: pgx for postgres, database/sql for sqlite. Absence of a
// row is reported as a nil result, never as an error.
package repository

import (
	"context"

	"github.com/deppfellow/bookmarks/internal/model/bookmark"
)

// BookmarkRepository is the data access contract for bookmarks.
type BookmarkRepository interface {
	// ListBookmarks returns every row ordered by id; empty, never nil.
	ListBookmarks(ctx context.Context) ([]bookmark.Bookmark, error)

	// GetBookmarkByID returns nil, nil when no row has id.
	GetBookmarkByID(ctx context.Context, id int64) (*bookmark.Bookmark, error)

	// CreateBookmark inserts a row and returns it with its generated id.
	CreateBookmark(ctx context.Context, input bookmark.NewBookmark) (*bookmark.Bookmark, error)

	// UpdateBookmark writes the non-nil patch fields and returns the number
	// of affected rows.
	UpdateBookmark(ctx context.Context, id int64, patch bookmark.Patch) (int64, error)

	// DeleteBookmark removes the row and returns the number of affected rows.
	DeleteBookmark(ctx context.Context, id int64) (int64, error)
}
