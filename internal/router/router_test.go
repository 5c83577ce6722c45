package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/bookmarks/internal/config"
	"github.com/deppfellow/bookmarks/internal/database"
	"github.com/deppfellow/bookmarks/internal/errs"
	"github.com/deppfellow/bookmarks/internal/handler"
	"github.com/deppfellow/bookmarks/internal/model/bookmark"
	"github.com/deppfellow/bookmarks/internal/repository"
	"github.com/deppfellow/bookmarks/internal/server"
	"github.com/deppfellow/bookmarks/internal/service"
)

const testToken = "test-api-token"

type testApp struct {
	router *echo.Echo
	repos  *repository.Repositories
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	sqlDB, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.MigrateSQLite(context.Background(), sqlDB))

	logger := zerolog.Nop()
	cfg := config.DefaultConfig()
	cfg.Auth.APIToken = testToken
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.Path = ":memory:"

	s := &server.Server{
		Config: cfg,
		Logger: &logger,
		DB:     database.NewFromSQL(sqlDB, &logger),
	}

	repos := repository.NewRepositories(s)
	services, err := service.NewServices(s, repos)
	require.NoError(t, err)

	return &testApp{
		router: NewRouter(s, handler.NewHandlers(s, services), services),
		repos:  repos,
	}
}

func strPtr(s string) *string { return &s }

func fixtureBookmarks() []bookmark.NewBookmark {
	return []bookmark.NewBookmark{
		{Title: "First test post!", URL: "http://How-to.com", Description: strPtr("Lorem ipsum dolor sit amet, consectetur adipisicing elit."), Rating: 1},
		{Title: "Second test post!", URL: "https://News.com", Description: strPtr("Lorem ipsum dolor sit amet consectetur adipisicing elit."), Rating: 5},
		{Title: "Third test post!", URL: "https://Listicle.org", Description: strPtr("Lorem ipsum dolor sit amet consectetur adipisicing elit."), Rating: 2},
		{Title: "Fourth test post!", URL: "https://Story.gov", Description: strPtr("Lorem ipsum dolor sit amet consectetur adipisicing elit."), Rating: 4},
	}
}

func (a *testApp) seed(t *testing.T) []bookmark.Response {
	t.Helper()

	var seeded []bookmark.Response
	for _, nb := range fixtureBookmarks() {
		b, err := a.repos.Bookmark.CreateBookmark(context.Background(), nb)
		require.NoError(t, err)
		seeded = append(seeded, bookmark.Serialize(*b))
	}
	return seeded
}

func (a *testApp) do(method, target, body string, authorized bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authorized {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+testToken)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body errs.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Message
}

func decodeBookmark(t *testing.T, rec *httptest.ResponseRecorder) bookmark.Response {
	t.Helper()

	var got bookmark.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func TestUnauthorizedRequests(t *testing.T) {
	app := newTestApp(t)

	endpoints := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/bookmarks"},
		{http.MethodPost, "/bookmarks"},
		{http.MethodGet, "/bookmarks/1"},
		{http.MethodPatch, "/bookmarks/1"},
		{http.MethodDelete, "/bookmarks/1"},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.target, func(t *testing.T) {
			rec := app.do(ep.method, ep.target, "", false)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":{"message":"Unauthorized request"}}`, rec.Body.String())
		})
	}

	t.Run("wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/bookmarks", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer not-the-token")
		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListBookmarks(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodGet, "/bookmarks", "", true)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("seeded store", func(t *testing.T) {
		app := newTestApp(t)
		seeded := app.seed(t)

		rec := app.do(http.MethodGet, "/bookmarks", "", true)
		require.Equal(t, http.StatusOK, rec.Code)

		var got []bookmark.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, seeded, got)
	})
}

func TestGetBookmark(t *testing.T) {
	app := newTestApp(t)
	seeded := app.seed(t)

	t.Run("existing id", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/bookmarks/2", "", true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, seeded[1], decodeBookmark(t, rec))
	})

	for _, id := range []string{"123456", "0", "-1", "abc", "1.5"} {
		t.Run("not found "+id, func(t *testing.T) {
			rec := app.do(http.MethodGet, "/bookmarks/"+id, "", true)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.JSONEq(t, `{"error":{"message":"Bookmark doesn't exist"}}`, rec.Body.String())
		})
	}
}

func TestCreateBookmark(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		app := newTestApp(t)
		app.seed(t)

		rec := app.do(http.MethodPost, "/bookmarks",
			`{"title":"Test new bookmark","url":"https://www.new.com","description":"A new bookmark","rating":3}`, true)
		require.Equal(t, http.StatusCreated, rec.Code)

		created := decodeBookmark(t, rec)
		assert.Equal(t, int64(5), created.ID)
		assert.Equal(t, "Test new bookmark", created.Title)
		assert.Equal(t, "https://www.new.com", created.URL)
		assert.Equal(t, "A new bookmark", created.Description)
		assert.Equal(t, float64(3), created.Rating)
		assert.Equal(t, fmt.Sprintf("/bookmarks/%d", created.ID), rec.Header().Get(echo.HeaderLocation))

		fetched := app.do(http.MethodGet, rec.Header().Get(echo.HeaderLocation), "", true)
		require.Equal(t, http.StatusOK, fetched.Code)
		assert.Equal(t, created, decodeBookmark(t, fetched))
	})

	t.Run("description is optional", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodPost, "/bookmarks", `{"title":"t","url":"https://u.com","rating":2}`, true)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "", decodeBookmark(t, rec).Description)
	})

	t.Run("numeric string rating", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodPost, "/bookmarks", `{"title":"t","url":"https://u.com","rating":"5"}`, true)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, float64(5), decodeBookmark(t, rec).Rating)
	})

	missing := []struct {
		field string
		body  string
	}{
		{"title", `{"url":"https://u.com","rating":1}`},
		{"url", `{"title":"t","rating":1}`},
		{"rating", `{"title":"t","url":"https://u.com"}`},
	}
	for _, tt := range missing {
		t.Run("missing "+tt.field, func(t *testing.T) {
			app := newTestApp(t)

			rec := app.do(http.MethodPost, "/bookmarks", tt.body, true)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, fmt.Sprintf("'%s' is required", tt.field), errorMessage(t, rec))

			list := app.do(http.MethodGet, "/bookmarks", "", true)
			assert.JSONEq(t, `[]`, list.Body.String())
		})
	}

	t.Run("non numeric rating", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodPost, "/bookmarks", `{"title":"t","url":"https://u.com","rating":"great"}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "'rating' must be a number", errorMessage(t, rec))
	})

	t.Run("malformed json", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodPost, "/bookmarks", `{"title":`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Request body must be valid JSON", errorMessage(t, rec))
	})

	t.Run("not json", func(t *testing.T) {
		app := newTestApp(t)

		req := httptest.NewRequest(http.MethodPost, "/bookmarks", strings.NewReader("title=t"))
		req.Header.Set(echo.HeaderContentType, echo.MIMETextPlain)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+testToken)
		rec := httptest.NewRecorder()
		app.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
		assert.Equal(t, "Request body must be JSON", errorMessage(t, rec))
	})

	t.Run("markup is sanitized on output", func(t *testing.T) {
		app := newTestApp(t)

		payload, err := json.Marshal(map[string]any{
			"title":       `Naughty naughty very naughty <script>alert("xss");</script>`,
			"url":         "https://www.hackers.com",
			"description": `Bad image <img src="https://url.to.file.which/does-not.exist" onerror="alert(document.cookie);">. But not <strong>all</strong> bad.`,
			"rating":      1,
		})
		require.NoError(t, err)

		rec := app.do(http.MethodPost, "/bookmarks", string(payload), true)
		require.Equal(t, http.StatusCreated, rec.Code)

		created := decodeBookmark(t, rec)
		assert.Equal(t, "Naughty naughty very naughty ", created.Title)
		assert.NotContains(t, created.Description, "onerror")
		assert.Contains(t, created.Description, "<strong>all</strong>")

		fetched := app.do(http.MethodGet, rec.Header().Get(echo.HeaderLocation), "", true)
		assert.Equal(t, created, decodeBookmark(t, fetched))
	})
}

func TestUpdateBookmark(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		app := newTestApp(t)
		seeded := app.seed(t)

		rec := app.do(http.MethodPatch, "/bookmarks/2", `{"title":"updated title","rating":3}`, true)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		want := seeded[1]
		want.Title = "updated title"
		want.Rating = 3

		fetched := app.do(http.MethodGet, "/bookmarks/2", "", true)
		assert.Equal(t, want, decodeBookmark(t, fetched))
	})

	t.Run("no usable field", func(t *testing.T) {
		app := newTestApp(t)
		seeded := app.seed(t)

		for _, body := range []string{"", `{}`, `{"irrelevantField":"foo"}`, `{"title":""}`} {
			rec := app.do(http.MethodPatch, "/bookmarks/2", body, true)
			assert.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
			assert.Equal(t, bookmark.MessageEmptyPatch, errorMessage(t, rec))
		}

		fetched := app.do(http.MethodGet, "/bookmarks/2", "", true)
		assert.Equal(t, seeded[1], decodeBookmark(t, fetched))
	})

	t.Run("punctuation survives a read then write", func(t *testing.T) {
		app := newTestApp(t)

		payload, err := json.Marshal(map[string]any{
			"title":       "Tom & Jerry's picks",
			"url":         "https://u.com",
			"description": `Rock & roll isn't "dead"`,
			"rating":      4,
		})
		require.NoError(t, err)

		rec := app.do(http.MethodPost, "/bookmarks", string(payload), true)
		require.Equal(t, http.StatusCreated, rec.Code)
		created := decodeBookmark(t, rec)
		assert.Equal(t, "Tom & Jerry's picks", created.Title)
		assert.Equal(t, `Rock & roll isn't "dead"`, created.Description)

		patch, err := json.Marshal(map[string]any{
			"title":       created.Title,
			"description": created.Description,
		})
		require.NoError(t, err)

		location := rec.Header().Get(echo.HeaderLocation)
		updated := app.do(http.MethodPatch, location, string(patch), true)
		require.Equal(t, http.StatusNoContent, updated.Code)

		fetched := app.do(http.MethodGet, location, "", true)
		assert.Equal(t, created, decodeBookmark(t, fetched))
	})

	t.Run("unknown id", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodPatch, "/bookmarks/123456", `{"title":"x"}`, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, errs.MessageBookmarkNotFound, errorMessage(t, rec))
	})
}

func TestDeleteBookmark(t *testing.T) {
	t.Run("existing id", func(t *testing.T) {
		app := newTestApp(t)
		seeded := app.seed(t)

		rec := app.do(http.MethodDelete, "/bookmarks/2", "", true)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		list := app.do(http.MethodGet, "/bookmarks", "", true)
		var got []bookmark.Response
		require.NoError(t, json.Unmarshal(list.Body.Bytes(), &got))
		assert.Equal(t, []bookmark.Response{seeded[0], seeded[2], seeded[3]}, got)

		again := app.do(http.MethodDelete, "/bookmarks/2", "", true)
		assert.Equal(t, http.StatusNotFound, again.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		app := newTestApp(t)

		rec := app.do(http.MethodDelete, "/bookmarks/123456", "", true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":{"message":"Bookmark doesn't exist"}}`, rec.Body.String())
	})
}

func TestSystemRoutes(t *testing.T) {
	app := newTestApp(t)

	t.Run("status", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/status", "", false)
		require.Equal(t, http.StatusOK, rec.Code)

		var body handler.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "healthy", body.Checks["database"].Status)
		assert.NotContains(t, body.Checks, "redis")
	})

	t.Run("docs page outside the repository root", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/docs", "", false)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "API documentation is not available", errorMessage(t, rec))
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/nope", "", false)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, errs.MessageRouteNotFound, errorMessage(t, rec))
	})
}
