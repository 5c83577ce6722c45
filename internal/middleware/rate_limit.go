package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/deppfellow/bookmarks/internal/config"
	"github.com/deppfellow/bookmarks/internal/errs"
	"github.com/deppfellow/bookmarks/internal/server"
)

// RateLimitMiddleware limits requests per client IP. The counter lives in
// Redis when it is configured, so every instance shares it; otherwise each
// process keeps its own in memory.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit returns the limiter, or a pass-through when rate limiting is off.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	cfg := r.server.Config.Server.RateLimit
	if !cfg.Enabled {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: r.newStore(cfg),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return errs.NewTooManyRequestsError()
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().
				Str("identifier", identifier).
				Msg("rate limit exceeded")
			return errs.NewTooManyRequestsError()
		},
	})
}

func (r *RateLimitMiddleware) newStore(cfg config.RateLimitConfig) middleware.RateLimiterStore {
	if r.server.Redis != nil {
		return NewRedisRateLimiterStore(r.server.Redis, cfg.Requests, cfg.Window, r.server.Logger)
	}

	return middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
		Burst:     cfg.Requests,
		ExpiresIn: 3 * time.Minute,
	})
}

// RecordRateLimitHit sends a RateLimitHit custom event to New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint": endpoint,
		})
	}
}

// RedisRateLimiterStore is a fixed-window counter: INCR on a key per
// identifier and window, expiring with the window.
type RedisRateLimiterStore struct {
	client  *redis.Client
	limit   int
	window  time.Duration
	timeout time.Duration
	logger  *zerolog.Logger
	now     func() time.Time
}

func NewRedisRateLimiterStore(client *redis.Client, limit int, window time.Duration, logger *zerolog.Logger) *RedisRateLimiterStore {
	return &RedisRateLimiterStore{
		client:  client,
		limit:   limit,
		window:  window,
		timeout: 200 * time.Millisecond,
		logger:  logger,
		now:     time.Now,
	}
}

// Allow implements middleware.RateLimiterStore. Redis failures let the
// request through.
func (s *RedisRateLimiterStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	key := s.key(identifier)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("rate limit store unavailable, allowing request")
		return true, nil
	}

	return incr.Val() <= int64(s.limit), nil
}

func (s *RedisRateLimiterStore) key(identifier string) string {
	bucket := s.now().UnixNano() / int64(s.window)
	return fmt.Sprintf("bookmarks:ratelimit:%s:%d", identifier, bucket)
}
