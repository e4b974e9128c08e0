// Package router provides route registration and method+path matching
// for the digwebs framework. Pattern matching itself is delegated to
// julienschmidt/httprouter; this package only attaches method and
// pattern metadata to handlers and resolves inbound requests to the
// handler the dispatcher should invoke.
package router

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/m271828ngtao/digwebs/pkg/common"
)

// Route binds a handler to an HTTP method token and a path pattern,
// e.g. "/x/:id". The metadata is static: it is attached at registration
// time and never changes, regardless of how often the handler runs.
type Route struct {
	Method  string
	Pattern string
	Handler common.Handler
}

// Get registers metadata for a GET route.
func Get(pattern string, h common.Handler) Route {
	return Route{Method: http.MethodGet, Pattern: pattern, Handler: h}
}

// Post registers metadata for a POST route.
func Post(pattern string, h common.Handler) Route {
	return Route{Method: http.MethodPost, Pattern: pattern, Handler: h}
}

// Put registers metadata for a PUT route.
func Put(pattern string, h common.Handler) Route {
	return Route{Method: http.MethodPut, Pattern: pattern, Handler: h}
}

// Delete registers metadata for a DELETE route.
func Delete(pattern string, h common.Handler) Route {
	return Route{Method: http.MethodDelete, Pattern: pattern, Handler: h}
}

// View wraps a handler so that its Model result is bound to the given
// template name as a renderable *common.Template. Any other non-nil
// result is a configuration error: a view handler must return a
// mapping.
func View(template string, h common.Handler) common.Handler {
	return func(ctx *common.Context) (common.Result, error) {
		res, err := h(ctx)
		if err != nil {
			return nil, err
		}
		model, ok := res.(common.Model)
		if !ok {
			return nil, fmt.Errorf("view %s: handler must return a mapping, got %T", template, res)
		}
		return &common.Template{Name: template, Model: model}, nil
	}
}

// DispatchFunc is the callback a Table hands each matched request to.
// The handler is nil when no route matched the request path; the
// dispatcher substitutes its not-found handler in that case.
type DispatchFunc func(w http.ResponseWriter, r *http.Request, h common.Handler, params common.Params)

// Table matches inbound requests against registered routes and feeds
// each one, together with the selected handler and extracted
// parameters, to the dispatch callback. It is immutable once the first
// request is served.
type Table struct {
	hr       *httprouter.Router
	dispatch DispatchFunc
	routes   []Route
}

// NewTable creates a table that resolves requests and forwards them to
// dispatch. Unmatched paths are forwarded with a nil handler; matched
// paths with a disallowed method are forwarded with a handler that
// yields a declared 405.
func NewTable(dispatch DispatchFunc) *Table {
	t := &Table{
		hr:       httprouter.New(),
		dispatch: dispatch,
	}
	t.hr.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.dispatch(w, r, nil, nil)
	})
	t.hr.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.dispatch(w, r, methodNotAllowed, nil)
	})
	// Trailing-slash redirects would bypass the dispatch pipeline, so
	// they are disabled; an unmatched "/path/" is a plain not-found.
	t.hr.RedirectTrailingSlash = false
	t.hr.RedirectFixedPath = false
	return t
}

func methodNotAllowed(ctx *common.Context) (common.Result, error) {
	return nil, &common.HTTPError{Status: "405 Method Not Allowed"}
}

// Add registers routes with the table. Registering two routes with
// conflicting patterns panics, matching httprouter's registration-time
// behavior; routes are expected to be registered during startup, before
// the first request.
func (t *Table) Add(routes ...Route) {
	for _, route := range routes {
		route := route
		t.hr.Handle(route.Method, route.Pattern, func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			t.dispatch(w, r, route.Handler, convertParams(ps))
		})
		t.routes = append(t.routes, route)
	}
}

// Routes returns the registered routes in registration order.
func (t *Table) Routes() []Route {
	return t.routes
}

// ServeHTTP resolves the request and hands it to the dispatch callback.
func (t *Table) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.hr.ServeHTTP(w, r)
}

func convertParams(ps httprouter.Params) common.Params {
	if len(ps) == 0 {
		return nil
	}
	params := make(common.Params, len(ps))
	for i, p := range ps {
		params[i] = common.Param{Key: p.Key, Value: p.Value}
	}
	return params
}
