package common

import (
	"strconv"
	"strings"
)

// DefaultStatus is the status line a fresh response starts with.
const DefaultStatus = "200 OK"

// Header is a single name/value pair. Headers are kept as an ordered
// sequence rather than a map because HTTP allows repeated header names
// and insertion order is significant on the wire.
type Header struct {
	Name  string
	Value string
}

// Response is the mutable half of the per-request context. Middleware
// and handlers fill in the status line and headers during dispatch; the
// dispatcher reads them out once the full chain has completed, never
// before. Headers must be finalized before the body is emitted.
type Response struct {
	Status  string
	headers []Header
}

// NewResponse creates a response with the default "200 OK" status and
// no headers.
func NewResponse() *Response {
	return &Response{Status: DefaultStatus}
}

// SetHeader overwrites the first header with the given name
// (case-insensitive), or appends a new one if none is present.
func (r *Response) SetHeader(name, value string) {
	for i := range r.headers {
		if strings.EqualFold(r.headers[i].Name, name) {
			r.headers[i].Value = value
			return
		}
	}
	r.headers = append(r.headers, Header{Name: name, Value: value})
}

// AddHeader appends a header, preserving any existing headers with the
// same name.
func (r *Response) AddHeader(name, value string) {
	r.headers = append(r.headers, Header{Name: name, Value: value})
}

// Header returns the value of the first header with the given name
// (case-insensitive), or the empty string.
func (r *Response) Header(name string) string {
	for i := range r.headers {
		if strings.EqualFold(r.headers[i].Name, name) {
			return r.headers[i].Value
		}
	}
	return ""
}

// Headers returns the recorded headers in insertion order.
func (r *Response) Headers() []Header {
	return r.headers
}

// StatusCode extracts the numeric code from a status line such as
// "404 Not Found". It returns 500 if the line does not start with a
// number, so a malformed status never reaches the transport as 0.
func StatusCode(status string) int {
	field, _, _ := strings.Cut(strings.TrimSpace(status), " ")
	code, err := strconv.Atoi(field)
	if err != nil {
		return 500
	}
	return code
}
