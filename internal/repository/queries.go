package repository

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/deppfellow/bookmarks/internal/model/bookmark"
)

const bookmarksTable = "bookmarks"

var bookmarkColumns = []string{"id", "title", "url", "description", "rating"}

// bookmarkQueries builds the statements for one SQL dialect.
type bookmarkQueries struct {
	sb sq.StatementBuilderType
}

func newBookmarkQueries(placeholder sq.PlaceholderFormat) bookmarkQueries {
	return bookmarkQueries{sb: sq.StatementBuilder.PlaceholderFormat(placeholder)}
}

func (q bookmarkQueries) list() sq.SelectBuilder {
	return q.sb.Select(bookmarkColumns...).
		From(bookmarksTable).
		OrderBy("id")
}

func (q bookmarkQueries) byID(id int64) sq.SelectBuilder {
	return q.sb.Select(bookmarkColumns...).
		From(bookmarksTable).
		Where(sq.Eq{"id": id})
}

func (q bookmarkQueries) insert(input bookmark.NewBookmark) sq.InsertBuilder {
	return q.sb.Insert(bookmarksTable).
		Columns("title", "url", "description", "rating").
		Values(input.Title, input.URL, input.Description, input.Rating).
		Suffix("RETURNING id, title, url, description, rating")
}

func (q bookmarkQueries) update(id int64, patch bookmark.Patch) sq.UpdateBuilder {
	clauses := map[string]any{}
	if patch.Title != nil {
		clauses["title"] = *patch.Title
	}
	if patch.URL != nil {
		clauses["url"] = *patch.URL
	}
	if patch.Description != nil {
		clauses["description"] = *patch.Description
	}
	if patch.Rating != nil {
		clauses["rating"] = *patch.Rating
	}

	return q.sb.Update(bookmarksTable).
		SetMap(clauses).
		Where(sq.Eq{"id": id})
}

func (q bookmarkQueries) delete(id int64) sq.DeleteBuilder {
	return q.sb.Delete(bookmarksTable).
		Where(sq.Eq{"id": id})
}

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookmark(row rowScanner) (bookmark.Bookmark, error) {
	var b bookmark.Bookmark
	err := row.Scan(&b.ID, &b.Title, &b.URL, &b.Description, &b.Rating)
	return b, err
}
