package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/deppfellow/bookmarks/internal/model/bookmark"
)

// PostgresBookmarkRepository runs the bookmark queries on a pgx pool.
type PostgresBookmarkRepository struct {
	pool    *pgxpool.Pool
	queries bookmarkQueries
}

var _ BookmarkRepository = (*PostgresBookmarkRepository)(nil)

func NewPostgresBookmarkRepository(pool *pgxpool.Pool) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{
		pool:    pool,
		queries: newBookmarkQueries(sq.Dollar),
	}
}

func (r *PostgresBookmarkRepository) ListBookmarks(ctx context.Context) ([]bookmark.Bookmark, error) {
	query, args, err := r.queries.list().ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build list bookmarks query")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list bookmarks")
	}
	defer rows.Close()

	bookmarks := []bookmark.Bookmark{}
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan bookmark")
		}
		bookmarks = append(bookmarks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate bookmarks")
	}

	return bookmarks, nil
}

func (r *PostgresBookmarkRepository) GetBookmarkByID(ctx context.Context, id int64) (*bookmark.Bookmark, error) {
	query, args, err := r.queries.byID(id).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build get bookmark query")
	}

	b, err := scanBookmark(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get bookmark with id=%d", id)
	}

	return &b, nil
}

func (r *PostgresBookmarkRepository) CreateBookmark(ctx context.Context, input bookmark.NewBookmark) (*bookmark.Bookmark, error) {
	query, args, err := r.queries.insert(input).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build insert bookmark query")
	}

	b, err := scanBookmark(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert bookmark")
	}

	return &b, nil
}

func (r *PostgresBookmarkRepository) UpdateBookmark(ctx context.Context, id int64, patch bookmark.Patch) (int64, error) {
	if patch.IsEmpty() {
		return 0, nil
	}

	query, args, err := r.queries.update(id, patch).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "failed to build update bookmark query")
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to update bookmark with id=%d", id)
	}

	return tag.RowsAffected(), nil
}

func (r *PostgresBookmarkRepository) DeleteBookmark(ctx context.Context, id int64) (int64, error) {
	query, args, err := r.queries.delete(id).ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "failed to build delete bookmark query")
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to delete bookmark with id=%d", id)
	}

	return tag.RowsAffected(), nil
}
