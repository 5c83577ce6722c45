package handler

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/bookmarks/internal/errs"
	"github.com/deppfellow/bookmarks/internal/middleware"
	"github.com/deppfellow/bookmarks/internal/model/bookmark"
	"github.com/deppfellow/bookmarks/internal/server"
	"github.com/deppfellow/bookmarks/internal/service"
)

// bookmarkContextKey holds the row loaded by LoadBookmark.
const bookmarkContextKey = "bookmark"

type BookmarkHandler struct {
	Handler
	bookmarkService service.BookmarkService
}

func NewBookmarkHandler(s *server.Server, bookmarkService service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{
		Handler:         NewHandler(s),
		bookmarkService: bookmarkService,
	}
}

// LoadBookmark resolves :id once per request and stores the row for the
// downstream handler. Ids that are not positive integers, and ids with no
// row, get a 404.
func (h *BookmarkHandler) LoadBookmark(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			return errs.NewBookmarkNotFoundError()
		}

		b, err := h.bookmarkService.GetBookmark(c.Request().Context(), id)
		if err != nil {
			return err
		}
		if b == nil {
			middleware.GetLogger(c).Info().Int64("bookmark_id", id).Msgf("Bookmark with id %d not found.", id)
			return errs.NewBookmarkNotFoundError()
		}

		c.Set(bookmarkContextKey, b)
		return next(c)
	}
}

// loadedBookmark returns the row stored by LoadBookmark.
func loadedBookmark(c echo.Context) (*bookmark.Bookmark, error) {
	b, ok := c.Get(bookmarkContextKey).(*bookmark.Bookmark)
	if !ok || b == nil {
		return nil, errs.NewBookmarkNotFoundError()
	}
	return b, nil
}

func (h *BookmarkHandler) ListBookmarks(c echo.Context, _ *bookmark.GetBookmarksQuery) ([]bookmark.Response, error) {
	bookmarks, err := h.bookmarkService.ListBookmarks(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return bookmark.SerializeAll(bookmarks), nil
}

func (h *BookmarkHandler) CreateBookmark(c echo.Context, payload *bookmark.CreateBookmarkPayload) (bookmark.Response, error) {
	created, err := h.bookmarkService.CreateBookmark(c.Request().Context(), payload.NewBookmark())
	if err != nil {
		return bookmark.Response{}, err
	}

	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/bookmarks/%d", created.ID))
	return bookmark.Serialize(*created), nil
}

func (h *BookmarkHandler) GetBookmark(c echo.Context, _ *bookmark.BookmarkRequest) (bookmark.Response, error) {
	b, err := loadedBookmark(c)
	if err != nil {
		return bookmark.Response{}, err
	}
	return bookmark.Serialize(*b), nil
}

// UpdateBookmark applies the patch. A row deleted between the lookup and
// the write is reported as not found.
func (h *BookmarkHandler) UpdateBookmark(c echo.Context, payload *bookmark.UpdateBookmarkPayload) error {
	b, err := loadedBookmark(c)
	if err != nil {
		return err
	}

	affected, err := h.bookmarkService.UpdateBookmark(c.Request().Context(), b.ID, payload.Patch())
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.NewBookmarkNotFoundError()
	}
	return nil
}

func (h *BookmarkHandler) DeleteBookmark(c echo.Context, _ *bookmark.BookmarkRequest) error {
	b, err := loadedBookmark(c)
	if err != nil {
		return err
	}

	affected, err := h.bookmarkService.DeleteBookmark(c.Request().Context(), b.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.NewBookmarkNotFoundError()
	}

	middleware.GetLogger(c).Info().Int64("bookmark_id", b.ID).Msgf("Bookmark with id %d deleted.", b.ID)
	return nil
}
