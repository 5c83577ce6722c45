package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/bookmarks/internal/errs"
	"github.com/deppfellow/bookmarks/internal/middleware"
	"github.com/deppfellow/bookmarks/internal/server"
)

// OpenAPIUIPath is the docs page, relative to the working directory. It
// loads /static/openapi.json.
const OpenAPIUIPath = "static/openapi.html"

// OpenAPIHandler serves the API reference page.
type OpenAPIHandler struct {
	Handler
	uiPath string
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		uiPath:  OpenAPIUIPath,
	}
}

// ServeOpenAPIUI reads the page on every request so edits show without a
// restart. A binary started outside the repository root has no page and
// answers 404.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := os.ReadFile(h.uiPath)
	if errors.Is(err, fs.ErrNotExist) {
		middleware.GetLogger(c).Warn().Str("path", h.uiPath).Msg("openapi ui page missing")
		return errs.NewNotFoundError("API documentation is not available")
	}
	if err != nil {
		return err
	}

	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTMLBlob(http.StatusOK, page)
}
