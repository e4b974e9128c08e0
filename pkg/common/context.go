package common

// Application is the process-wide, read-only configuration visible to
// every request through the context. It is immutable after startup and
// therefore safe to share across concurrently dispatched requests.
type Application struct {
	DocumentRoot string
	Debug        bool
}

// Context is the per-request bundle of application config, request and
// response. It is created fresh for every inbound request, owned
// exclusively by the goroutine dispatching that request, and torn down
// unconditionally when dispatch finishes. Only App is shared between
// requests; Request and Response never are.
type Context struct {
	App      *Application
	Request  *Request
	Response *Response

	handler Handler
	values  map[any]any
}

// NewContext begins a request: it binds the shared application config,
// the wrapped request, a response initialized to "200 OK" with no
// headers, and the terminal handler the chain will invoke once every
// middleware has passed control on.
func NewContext(app *Application, req *Request, terminal Handler) *Context {
	return &Context{
		App:      app,
		Request:  req,
		Response: NewResponse(),
		handler:  terminal,
	}
}

// Terminal returns the handler selected for this request.
func (c *Context) Terminal() Handler {
	return c.handler
}

// Set stores a request-scoped value, e.g. a trace ID or authenticated
// user. Keys follow the context.Context convention of unexported types
// to avoid collisions between packages.
func (c *Context) Set(key, value any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = value
}

// Value returns a request-scoped value previously stored with Set, or
// nil.
func (c *Context) Value(key any) any {
	return c.values[key]
}

// Release ends the request. It drops every per-request reference so a
// context accidentally retained past dispatch cannot leak the request
// or response. It runs exactly once per request, on every path.
func (c *Context) Release() {
	c.App = nil
	c.Request = nil
	c.Response = nil
	c.handler = nil
	c.values = nil
}
