// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns such as the
// API token check, request logging, CORS, rate limiting, tracing and panic
// recovery, plus the error handler that shapes every failure response.
package middleware
