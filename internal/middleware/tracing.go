package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/bookmarks/internal/server"
)

// TracingMiddleware instruments requests with New Relic. Without an
// application every method hands back a pass-through.
type TracingMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

func NewTracingMiddleware(s *server.Server, nrApp *newrelic.Application) *TracingMiddleware {
	return &TracingMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc {
	return next
}

// NewRelicMiddleware opens one transaction per request, named after the
// matched route, and stores it in the request context.
func (tm *TracingMiddleware) NewRelicMiddleware() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return passThrough
	}
	return nrecho.Middleware(tm.nrApp)
}

// EnhanceTracing decorates the transaction once the handler has run: the
// client, the request id, whether the token was accepted, the bookmark id
// from the path and, on success, the status. Returned errors are noticed with
// their stack.
func (tm *TracingMiddleware) EnhanceTracing() echo.MiddlewareFunc {
	if tm.nrApp == nil {
		return passThrough
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txn := newrelic.FromContext(c.Request().Context())
			if txn == nil {
				return next(c)
			}

			err := next(c)

			attrs := map[string]any{
				"http.real_ip":     c.RealIP(),
				"http.user_agent": c.Request().UserAgent(),
				"request.id":      GetRequestID(c),
			}
			// On error the status is only known after the error handler.
			if err == nil {
				attrs["http.status_code"] = c.Response().Status
			}
			if authenticated, ok := c.Get(AuthenticatedKey).(bool); ok {
				attrs["auth.authenticated"] = authenticated
			}
			if id := c.Param("id"); id != "" {
				attrs["bookmark.id"] = id
			}
			for k, v := range attrs {
				txn.AddAttribute(k, v)
			}

			if err != nil {
				txn.NoticeError(nrpkgerrors.Wrap(err))
			}
			return err
		}
	}
}
