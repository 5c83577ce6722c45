package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/bookmarks/internal/handler"
)

// registerSystemRoutes registers the endpoints outside the bookmark API:
// health, the docs UI and its static assets. None require a token.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	// openapi.json and openapi.html
	r.Static("/static", "static")

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
