package common

import (
	"io"
	"net/http"
	"net/url"
)

// Param is a single route parameter extracted by the router.
type Param struct {
	Key   string
	Value string
}

// Params is the ordered list of route parameters for the matched route.
type Params []Param

// ByName returns the value of the first parameter with the given key,
// or the empty string.
func (ps Params) ByName(name string) string {
	for i := range ps {
		if ps[i].Key == name {
			return ps[i].Value
		}
	}
	return ""
}

// Request is a read-only wrapper over the parsed inbound HTTP request.
// The dispatch core treats the underlying request as opaque; handlers
// and middleware use the accessors here.
type Request struct {
	raw    *http.Request
	params Params
	query  url.Values
}

// NewRequest wraps a parsed inbound request together with the route
// parameters the router extracted for it.
func NewRequest(r *http.Request, params Params) *Request {
	return &Request{raw: r, params: params}
}

// Method returns the HTTP method token, e.g. "GET".
func (r *Request) Method() string {
	return r.raw.Method
}

// Path returns the request path.
func (r *Request) Path() string {
	return r.raw.URL.Path
}

// Header returns the first value of the named request header.
func (r *Request) Header(name string) string {
	return r.raw.Header.Get(name)
}

// Param returns the named route parameter, e.g. the "id" in "/x/:id".
func (r *Request) Param(name string) string {
	return r.params.ByName(name)
}

// Query returns the first value of the named query parameter.
func (r *Request) Query(name string) string {
	if r.query == nil {
		r.query = r.raw.URL.Query()
	}
	return r.query.Get(name)
}

// QueryDefault returns the named query parameter, or def when it is
// absent or empty.
func (r *Request) QueryDefault(name, def string) string {
	if v := r.Query(name); v != "" {
		return v
	}
	return def
}

// Body returns the request body reader.
func (r *Request) Body() io.ReadCloser {
	return r.raw.Body
}

// RemoteAddr returns the transport-level peer address.
func (r *Request) RemoteAddr() string {
	return r.raw.RemoteAddr
}

// Raw exposes the underlying *http.Request for collaborators that need
// it, such as the client IP middleware.
func (r *Request) Raw() *http.Request {
	return r.raw
}
