package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/bookmarks/internal/lib/job"
	"github.com/deppfellow/bookmarks/internal/model/bookmark"
	"github.com/deppfellow/bookmarks/internal/repository"
)

// BookmarkService is the bookmark use-case surface the handlers call.
//
// Lookups report absence as a nil bookmark. Store failures are returned
// as-is; the HTTP layer decides how they surface.
type BookmarkService interface {
	ListBookmarks(ctx context.Context) ([]bookmark.Bookmark, error)
	GetBookmark(ctx context.Context, id int64) (*bookmark.Bookmark, error)
	CreateBookmark(ctx context.Context, input bookmark.NewBookmark) (*bookmark.Bookmark, error)
	UpdateBookmark(ctx context.Context, id int64, patch bookmark.Patch) (int64, error)
	DeleteBookmark(ctx context.Context, id int64) (int64, error)
}

// AuditPublisher records bookmark mutations out of band.
type AuditPublisher interface {
	PublishBookmarkAudit(ctx context.Context, payload job.BookmarkAuditPayload) error
}

type nopAuditPublisher struct{}

func (nopAuditPublisher) PublishBookmarkAudit(context.Context, job.BookmarkAuditPayload) error {
	return nil
}

type bookmarkService struct {
	repo      repository.BookmarkRepository
	publisher AuditPublisher
	logger    *zerolog.Logger
	now       func() time.Time
}

var _ BookmarkService = (*bookmarkService)(nil)

// NewBookmarkService builds the service. A nil publisher disables the
// audit trail.
func NewBookmarkService(repo repository.BookmarkRepository, publisher AuditPublisher, logger *zerolog.Logger) BookmarkService {
	if publisher == nil {
		publisher = nopAuditPublisher{}
	}

	return &bookmarkService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *bookmarkService) ListBookmarks(ctx context.Context) ([]bookmark.Bookmark, error) {
	return s.repo.ListBookmarks(ctx)
}

func (s *bookmarkService) GetBookmark(ctx context.Context, id int64) (*bookmark.Bookmark, error) {
	return s.repo.GetBookmarkByID(ctx, id)
}

func (s *bookmarkService) CreateBookmark(ctx context.Context, input bookmark.NewBookmark) (*bookmark.Bookmark, error) {
	created, err := s.repo.CreateBookmark(ctx, input)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, job.AuditCreated, created.ID)
	return created, nil
}

func (s *bookmarkService) UpdateBookmark(ctx context.Context, id int64, patch bookmark.Patch) (int64, error) {
	affected, err := s.repo.UpdateBookmark(ctx, id, patch)
	if err != nil {
		return 0, err
	}

	if affected > 0 {
		s.audit(ctx, job.AuditUpdated, id)
	}
	return affected, nil
}

func (s *bookmarkService) DeleteBookmark(ctx context.Context, id int64) (int64, error) {
	affected, err := s.repo.DeleteBookmark(ctx, id)
	if err != nil {
		return 0, err
	}

	if affected > 0 {
		s.audit(ctx, job.AuditDeleted, id)
	}
	return affected, nil
}

// audit publishes the mutation record. Failures are logged only; the
// mutation has already been committed.
func (s *bookmarkService) audit(ctx context.Context, action job.AuditAction, id int64) {
	payload := job.BookmarkAuditPayload{
		Action:     action,
		BookmarkID: id,
		OccurredAt: s.now().UTC(),
	}

	if err := s.publisher.PublishBookmarkAudit(context.WithoutCancel(ctx), payload); err != nil {
		s.loggerFor(ctx).Warn().
			Err(err).
			Str("action", string(action)).
			Int64("bookmark_id", id).
			Msg("failed to publish bookmark audit task")
	}
}

// loggerFor prefers the request-scoped logger carried by ctx.
func (s *bookmarkService) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}
