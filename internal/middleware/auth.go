package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/bookmarks/internal/errs"
	"github.com/deppfellow/bookmarks/internal/server"
	"github.com/deppfellow/bookmarks/internal/service"
)

// AuthMiddleware enforces the static API token.
type AuthMiddleware struct {
	server *server.Server
	auth   *service.AuthService
}

func NewAuthMiddleware(s *server.Server, auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
		auth:   auth,
	}
}

// RequireAuth rejects requests whose Authorization header does not carry
// the configured bearer token with 401 "Unauthorized request".
func (a *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		if !a.auth.Authenticate(c.Request().Header.Get(echo.HeaderAuthorization)) {
			GetLogger(c).Warn().
				Str("function", "RequireAuth").
				Dur("duration", time.Since(start)).
				Msg("unauthorized request")

			return errs.NewUnauthorizedError(errs.MessageUnauthorized)
		}

		c.Set(AuthenticatedKey, true)
		return next(c)
	}
}
