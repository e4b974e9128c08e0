package common

import "fmt"

// HTTPError is a declared, expected failure carrying an HTTP status
// line. The dispatcher translates it into a minimal status page without
// a stack trace, and does not log it as an error.
type HTTPError struct {
	Status string // status line, e.g. "404 Not Found"
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return e.Status
}

// NewHTTPError creates a declared HTTP error with the given status line.
func NewHTTPError(status string) *HTTPError {
	return &HTTPError{Status: status}
}

// RedirectError is a declared redirect carrying a target location and a
// 3xx status line. The dispatcher translates it into an empty-body
// response with a Location header.
type RedirectError struct {
	Status   string // status line, e.g. "302 Found"
	Location string
}

// Error implements the error interface.
func (e *RedirectError) Error() string {
	return fmt.Sprintf("%s, %s", e.Status, e.Location)
}

// BadRequest returns a declared 400 error.
func BadRequest() *HTTPError {
	return &HTTPError{Status: "400 Bad Request"}
}

// Unauthorized returns a declared 401 error.
func Unauthorized() *HTTPError {
	return &HTTPError{Status: "401 Unauthorized"}
}

// Forbidden returns a declared 403 error.
func Forbidden() *HTTPError {
	return &HTTPError{Status: "403 Forbidden"}
}

// NotFound returns a declared 404 error.
func NotFound() *HTTPError {
	return &HTTPError{Status: "404 Not Found"}
}

// Conflict returns a declared 409 error.
func Conflict() *HTTPError {
	return &HTTPError{Status: "409 Conflict"}
}

// TooManyRequests returns a declared 429 error.
func TooManyRequests() *HTTPError {
	return &HTTPError{Status: "429 Too Many Requests"}
}

// InternalError returns a declared 500 error. Unlike an unexpected
// fault, it is treated as intentional: no trace page, no error log.
func InternalError() *HTTPError {
	return &HTTPError{Status: "500 Internal Server Error"}
}

// MovedPermanently returns a declared 301 redirect to location.
func MovedPermanently(location string) *RedirectError {
	return &RedirectError{Status: "301 Moved Permanently", Location: location}
}

// Found returns a declared 302 redirect to location.
func Found(location string) *RedirectError {
	return &RedirectError{Status: "302 Found", Location: location}
}

// SeeOther returns a declared 303 redirect to location.
func SeeOther(location string) *RedirectError {
	return &RedirectError{Status: "303 See Other", Location: location}
}
