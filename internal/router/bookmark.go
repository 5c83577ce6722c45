package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/bookmarks/internal/handler"
	"github.com/deppfellow/bookmarks/internal/middleware"
	"github.com/deppfellow/bookmarks/internal/model/bookmark"
)

// registerBookmarkRoutes mounts the bookmark collection. Every route needs
// the API token; routes under /:id resolve the bookmark first, so an
// unknown id is a 404 before the body is looked at.
func registerBookmarkRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	bh := h.Bookmark

	bookmarks := r.Group("/bookmarks", m.Auth.RequireAuth, m.RateLimit.Limit())

	bookmarks.GET("", handler.Handle(
		bh.Handler,
		bh.ListBookmarks,
		http.StatusOK,
		&bookmark.GetBookmarksQuery{},
	))

	bookmarks.POST("", handler.Handle(
		bh.Handler,
		bh.CreateBookmark,
		http.StatusCreated,
		&bookmark.CreateBookmarkPayload{},
	))

	single := bookmarks.Group("/:id", bh.LoadBookmark)

	single.GET("", handler.Handle(
		bh.Handler,
		bh.GetBookmark,
		http.StatusOK,
		&bookmark.BookmarkRequest{},
	))

	single.PATCH("", handler.HandleNoContent(
		bh.Handler,
		bh.UpdateBookmark,
		http.StatusNoContent,
		&bookmark.UpdateBookmarkPayload{},
	))

	single.DELETE("", handler.HandleNoContent(
		bh.Handler,
		bh.DeleteBookmark,
		http.StatusNoContent,
		&bookmark.BookmarkRequest{},
	))
}
