// Package handler is the HTTP layer that sits after the router.
//
// It binds and validates requests with the validation package, calls the
// service layer and shapes the response.
package handler

import (
	"reflect"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/bookmarks/internal/middleware"
	"github.com/deppfellow/bookmarks/internal/server"
	"github.com/deppfellow/bookmarks/internal/validation"
)

// Handler holds the dependencies shared by every concrete handler.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint: it receives the validated payload and
// returns the response body or an error.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncNoContent is a typed endpoint without a response body.
type HandlerFuncNoContent[Req validation.Validatable] func(c echo.Context, req Req) error

// ResponseHandler writes a successful result and names it for logs.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error
	GetOperation() string
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

// NoContentResponseHandler writes an empty body, typically 204.
type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, result any) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

// newRequest returns a zero payload of the same type as template, so
// concurrent requests never share one.
func newRequest[Req validation.Validatable](template Req) Req {
	t := reflect.TypeOf(template)
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface().(Req)
	}
	return template
}

// recordPhase stores a phase outcome on the transaction, if any.
func recordPhase(txn *newrelic.Transaction, phase string, err error, d time.Duration) {
	if txn == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failed"
	}
	txn.AddAttribute(phase+".status", status)
	txn.AddAttribute(phase+".duration_ms", d.Milliseconds())
}

// handleRequest binds and validates req, runs handler and writes the
// result. Errors go back to the global error handler untouched.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", c.Path())
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", c.Path()).
		Logger()

	validationStart := time.Now()
	err := validation.BindAndValidate(c, req)
	validationDuration := time.Since(validationStart)
	recordPhase(txn, "validation", err, validationDuration)
	if err != nil {
		logger.Warn().Err(err).Dur("validation_duration", validationDuration).Msg("request rejected")
		return err
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)
	recordPhase(txn, "handler", err, handlerDuration)
	if err != nil {
		// 4xx outcomes such as a missing bookmark are expected; the error
		// handler logs them at the right level.
		logger.Debug().Err(err).Dur("handler_duration", handlerDuration).Msg("handler returned an error")
		return err
	}

	logger.Debug().
		Dur("validation_duration", validationDuration).
		Dur("handler_duration", handlerDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request handled")

	return responseHandler.Handle(c, result)
}

// Handle adapts a typed handler into an echo.HandlerFunc that responds
// with JSON and the given status. req only fixes the payload type; each
// request binds into a fresh value.
//
//	router.POST("/bookmarks", handler.Handle(h.Handler, h.CreateBookmark, http.StatusCreated, &bookmark.CreateBookmarkPayload{}))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleNoContent is Handle for endpoints without a response body.
func HandleNoContent[Req validation.Validatable](
	h Handler,
	handler HandlerFuncNoContent[Req],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (any, error) {
			return nil, handler(c, req)
		}, NoContentResponseHandler{status: status})
	}
}
