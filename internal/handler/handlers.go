package handler

import (
	"github.com/deppfellow/bookmarks/internal/server"
	"github.com/deppfellow/bookmarks/internal/service"
)

// Handlers groups all HTTP handlers so router setup receives one value.
type Handlers struct {
	Health   *HealthHandler
	OpenAPI  *OpenAPIHandler
	Bookmark *BookmarkHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
		Bookmark: NewBookmarkHandler(s, services.Bookmark),
	}
}
