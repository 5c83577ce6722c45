package repository

import (
	"context"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/bookmarks/internal/database"
	"github.com/deppfellow/bookmarks/internal/model/bookmark"
)

func strPtr(s string) *string { return &s }

func fixtureBookmarks() []bookmark.NewBookmark {
	return []bookmark.NewBookmark{
		{Title: "First test post!", URL: "http://How-to.com", Description: strPtr("Lorem ipsum dolor sit amet, consectetur adipisicing elit."), Rating: 1},
		{Title: "Second test post!", URL: "https://News.com", Description: strPtr("Lorem ipsum dolor sit amet consectetur adipisicing elit."), Rating: 5},
		{Title: "Third test post!", URL: "https://Listicle.org", Description: strPtr("Lorem ipsum dolor sit amet consectetur adipisicing elit."), Rating: 2},
		{Title: "Fourth test post!", URL: "https://Story.gov", Description: strPtr("Lorem ipsum dolor sit amet consectetur adipisicing elit."), Rating: 4},
	}
}

func newTestRepository(t *testing.T) *SQLiteBookmarkRepository {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.MigrateSQLite(context.Background(), db))

	return NewSQLiteBookmarkRepository(db)
}

func seed(t *testing.T, repo BookmarkRepository) []bookmark.Bookmark {
	t.Helper()

	var created []bookmark.Bookmark
	for _, nb := range fixtureBookmarks() {
		b, err := repo.CreateBookmark(context.Background(), nb)
		require.NoError(t, err)
		created = append(created, *b)
	}
	return created
}

func TestSQLiteListBookmarks(t *testing.T) {
	ctx := context.Background()

	t.Run("empty table", func(t *testing.T) {
		repo := newTestRepository(t)

		got, err := repo.ListBookmarks(ctx)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("seeded table", func(t *testing.T) {
		repo := newTestRepository(t)
		seeded := seed(t, repo)

		got, err := repo.ListBookmarks(ctx)
		require.NoError(t, err)
		assert.Equal(t, seeded, got)
	})
}

func TestSQLiteGetBookmarkByID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	seed(t, repo)

	t.Run("existing", func(t *testing.T) {
		got, err := repo.GetBookmarkByID(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(2), got.ID)
		assert.Equal(t, "Second test post!", got.Title)
		assert.Equal(t, "https://News.com", got.URL)
		assert.Equal(t, float64(5), got.Rating)
	})

	t.Run("absent is not an error", func(t *testing.T) {
		got, err := repo.GetBookmarkByID(ctx, 123456)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestSQLiteCreateBookmark(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	created, err := repo.CreateBookmark(ctx, bookmark.NewBookmark{Title: "t", URL: "http://x.com", Rating: 3.5})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Nil(t, created.Description)
	assert.Equal(t, 3.5, created.Rating)

	fetched, err := repo.GetBookmarkByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestSQLiteUpdateBookmark(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	seeded := seed(t, repo)

	rating := 3.0
	patch := bookmark.Patch{Title: strPtr("Updated title"), Rating: &rating}

	affected, err := repo.UpdateBookmark(ctx, 1, patch)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.GetBookmarkByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, patch.Apply(seeded[0]), *got)

	t.Run("missing row", func(t *testing.T) {
		affected, err := repo.UpdateBookmark(ctx, 99, patch)
		require.NoError(t, err)
		assert.Zero(t, affected)
	})

	t.Run("empty patch", func(t *testing.T) {
		affected, err := repo.UpdateBookmark(ctx, 1, bookmark.Patch{})
		require.NoError(t, err)
		assert.Zero(t, affected)
	})
}

func TestSQLiteDeleteBookmark(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	seed(t, repo)

	affected, err := repo.DeleteBookmark(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.DeleteBookmark(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, affected)

	remaining, err := repo.ListBookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 3)
	for _, b := range remaining {
		assert.NotEqual(t, int64(3), b.ID)
	}
}

func TestPostgresQueries(t *testing.T) {
	q := newBookmarkQueries(sq.Dollar)

	t.Run("insert returns the row", func(t *testing.T) {
		query, args, err := q.insert(bookmark.NewBookmark{Title: "t", URL: "u", Rating: 1}).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO bookmarks (title,url,description,rating) VALUES ($1,$2,$3,$4) RETURNING id, title, url, description, rating", query)
		assert.Len(t, args, 4)
	})

	t.Run("update sets only patched columns", func(t *testing.T) {
		query, args, err := q.update(7, bookmark.Patch{URL: strPtr("https://new.example")}).ToSql()
		require.NoError(t, err)
		assert.Equal(t, "UPDATE bookmarks SET url = $1 WHERE id = $2", query)
		assert.Equal(t, []any{"https://new.example", int64(7)}, args)
	})

	t.Run("list is ordered", func(t *testing.T) {
		query, _, err := q.list().ToSql()
		require.NoError(t, err)
		assert.Equal(t, "SELECT id, title, url, description, rating FROM bookmarks ORDER BY id", query)
	})
}
