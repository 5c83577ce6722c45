package errs

import (
	"net/http"
)

// Client-facing messages shared across layers.
const (
	MessageBookmarkNotFound = "Bookmark doesn't exist"
	MessageUnauthorized     = "Unauthorized request"
	MessageRouteNotFound    = "Route not found"
	MessageTooManyRequests  = "Too many requests"
)

// New builds an HTTPError whose code is derived from the status text.
func New(status int, message string) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message: message,
		Status:  status,
	}
}

// NewUnauthorizedError creates a 401 Unauthorized HTTPError.
func NewUnauthorizedError(message string) *HTTPError {
	return New(http.StatusUnauthorized, message)
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// code optionally replaces the default "BAD_REQUEST" code, which lets
// validation failures be told apart from malformed bodies in the logs.
func NewBadRequestError(message string, code *string) *HTTPError {
	err := New(http.StatusBadRequest, message)
	if code != nil {
		err.Code = *code
	}
	return err
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return New(http.StatusNotFound, message)
}

// NewBookmarkNotFoundError is the 404 returned for any missing, malformed
// or non-positive bookmark id.
func NewBookmarkNotFoundError() *HTTPError {
	return NewNotFoundError(MessageBookmarkNotFound)
}

// NewTooManyRequestsError creates a 429 Too Many Requests HTTPError.
func NewTooManyRequestsError() *HTTPError {
	return New(http.StatusTooManyRequests, MessageTooManyRequests)
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the underlying cause.
func NewInternalServerError() *HTTPError {
	return New(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// ValidationError converts a payload validation failure into a 400.
// The message is passed through untouched.
func ValidationError(err error) *HTTPError {
	code := "VALIDATION_FAILED"
	return NewBadRequestError(err.Error(), &code)
}
