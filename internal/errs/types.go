// Package errs defines the error types the HTTP layer returns to clients.
//
// Every failure leaves the API in the same envelope:
//
//	{ "error": { "message": "Bookmark doesn't exist" } }
//
// HTTPError carries the status and a machine-friendly code alongside the
// message so middleware can log and classify it, while only the message
// reaches the client.
package errs

import "strings"

// HTTPError is the error type handlers and middleware return for any
// failure that maps to a known HTTP status.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "BAD_REQUEST"), log only.
//   - Message: human-friendly message, sent to the client.
//   - Status: HTTP status code.
type HTTPError struct {
	Code    string
	Message string
	Status  int
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. It does not compare
// Code or Status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
	}
}

// Response is the JSON body written for every error.
type Response struct {
	Error Body `json:"error"`
}

// Body holds the client-facing part of an error.
type Body struct {
	Message string `json:"message"`
}

// NewResponse wraps a message in the error envelope.
func NewResponse(message string) Response {
	return Response{Error: Body{Message: message}}
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
