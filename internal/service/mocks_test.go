package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/deppfellow/bookmarks/internal/lib/job"
	"github.com/deppfellow/bookmarks/internal/model/bookmark"
	"github.com/deppfellow/bookmarks/internal/repository"
)

type MockBookmarkRepository struct {
	mock.Mock
}

var _ repository.BookmarkRepository = (*MockBookmarkRepository)(nil)

func (m *MockBookmarkRepository) ListBookmarks(ctx context.Context) ([]bookmark.Bookmark, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]bookmark.Bookmark), args.Error(1)
}

func (m *MockBookmarkRepository) GetBookmarkByID(ctx context.Context, id int64) (*bookmark.Bookmark, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookmark.Bookmark), args.Error(1)
}

func (m *MockBookmarkRepository) CreateBookmark(ctx context.Context, input bookmark.NewBookmark) (*bookmark.Bookmark, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookmark.Bookmark), args.Error(1)
}

func (m *MockBookmarkRepository) UpdateBookmark(ctx context.Context, id int64, patch bookmark.Patch) (int64, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookmarkRepository) DeleteBookmark(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockAuditPublisher struct {
	mock.Mock
}

var _ AuditPublisher = (*MockAuditPublisher)(nil)

func (m *MockAuditPublisher) PublishBookmarkAudit(ctx context.Context, payload job.BookmarkAuditPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
