// Package dispatch implements the digwebs request dispatch engine. An
// App threads every inbound request through a priority-ordered
// middleware chain into a matched route handler, converts the handler's
// result into the bytes sent to the transport, and maps failures onto
// well-formed HTTP responses.
package dispatch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/m271828ngtao/digwebs/pkg/common"
	"github.com/m271828ngtao/digwebs/pkg/router"
)

// ErrFrozen is returned when middleware or routes are registered after
// the app has started serving requests.
var ErrFrozen = errors.New("dispatch: cannot modify app once running")

// Renderer is the template-rendering collaborator. It is consumed only
// by the result translator, never by middleware directly.
type Renderer interface {
	Render(name string, model common.Model) (string, error)
}

// Config carries the process-lifetime settings an App is built with.
type Config struct {
	// DocumentRoot is the application's root path, exposed to handlers
	// through the context's shared application config.
	DocumentRoot string

	// Debug controls fault exposure: when true, unexpected faults
	// render the escaped stack trace in the 500 page; when false, the
	// page carries a generic message and the trace goes only to the
	// log.
	Debug bool

	// Logger is the process-wide diagnostic sink. A production zap
	// logger is used when nil.
	Logger *zap.Logger

	// Renderer renders Template results. Optional; a Template result
	// without a renderer is an unexpected fault.
	Renderer Renderer
}

// App is the dispatch entry point and the only place response status
// and headers are read from the context and handed to the transport.
// Middleware and routes are registered during startup; the first
// request freezes both, after which the app is an immutable composition
// safe for any number of concurrent requests.
type App struct {
	app      *common.Application
	logger   *zap.Logger
	renderer Renderer

	chain common.Chain
	table *router.Table

	entry      common.Handler
	freezeOnce sync.Once
	frozen     atomic.Bool

	wg         sync.WaitGroup
	shutdown   bool
	shutdownMu sync.RWMutex
}

// New creates an App from the given configuration.
func New(cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			logger = zap.NewNop()
		}
	}

	a := &App{
		app: &common.Application{
			DocumentRoot: cfg.DocumentRoot,
			Debug:        cfg.Debug,
		},
		logger:   logger,
		renderer: cfg.Renderer,
	}
	a.table = router.NewTable(a.serve)
	return a
}

// Logger returns the app's diagnostic logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Use registers a middleware with the given priority. Lower priorities
// run closer to the outside of the chain; equal priorities keep
// registration order. Returns ErrFrozen once the app is serving.
func (a *App) Use(mw common.Middleware, priority int) error {
	if a.frozen.Load() {
		return ErrFrozen
	}
	a.chain = a.chain.Append(common.Entry{Middleware: mw, Priority: priority})
	return nil
}

// Handle registers routes. Returns ErrFrozen once the app is serving.
func (a *App) Handle(routes ...router.Route) error {
	if a.frozen.Load() {
		return ErrFrozen
	}
	a.table.Add(routes...)
	return nil
}

// Routes returns the registered routes in registration order.
func (a *App) Routes() []router.Route {
	return a.table.Routes()
}

// Freeze sorts the middleware chain and composes it with the terminal
// step exactly once, before the first request. It is called implicitly
// by ServeHTTP and Dispatch; calling it earlier just moves the cutoff
// for registration.
func (a *App) Freeze() {
	a.freezeOnce.Do(func() {
		a.frozen.Store(true)
		a.entry = a.chain.Build(func(ctx *common.Context) (common.Result, error) {
			return ctx.Terminal()(ctx)
		})
	})
}

// notFound is the terminal handler substituted when no route matched.
func notFound(ctx *common.Context) (common.Result, error) {
	return nil, common.NotFound()
}

// Dispatch handles one inbound request: it begins a fresh context,
// invokes the middleware chain with the selected handler as the
// chain's terminal step, translates the result or failure, and returns
// the status line, ordered headers and body chunks for the transport.
// The context is torn down unconditionally before Dispatch returns. A
// nil handler means no route matched; the not-found handler is
// substituted.
func (a *App) Dispatch(r *http.Request, h common.Handler, params common.Params) (status string, headers []common.Header, body [][]byte) {
	a.Freeze()

	if h == nil {
		h = notFound
	}
	ctx := common.NewContext(a.app, common.NewRequest(r, params), h)
	defer ctx.Release()

	res, err := a.invoke(ctx)
	if err == nil {
		body, err = a.translate(res)
		if err == nil {
			return ctx.Response.Status, ctx.Response.Headers(), body
		}
	}
	return a.translateError(ctx, err)
}

// invoke runs the built chain, converting a panic anywhere in
// middleware or handlers into an error carrying the panic site's stack.
func (a *App) invoke(ctx *common.Context) (res common.Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = newPanicError(rec)
		}
	}()
	return a.entry(ctx)
}

// serve is the transport adapter: it dispatches the request and writes
// the resulting triple to the response writer, headers before body.
func (a *App) serve(w http.ResponseWriter, r *http.Request, h common.Handler, params common.Params) {
	status, headers, body := a.Dispatch(r, h, params)

	hdr := w.Header()
	for _, p := range headers {
		hdr.Add(p.Name, p.Value)
	}
	w.WriteHeader(common.StatusCode(status))
	for _, chunk := range body {
		if _, err := w.Write(chunk); err != nil {
			a.logger.Debug("response write failed", zap.Error(err))
			return
		}
	}
}

// ServeHTTP implements http.Handler. It freezes the app on first use,
// tracks the request for graceful shutdown, and hands the request to
// the route table, which calls back into the dispatcher with the
// selected handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.wg.Add(1)

	a.shutdownMu.RLock()
	isShutdown := a.shutdown
	a.shutdownMu.RUnlock()

	if isShutdown {
		a.wg.Done()
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	defer a.wg.Done()

	a.Freeze()
	a.table.ServeHTTP(w, r)
}

// Run starts an HTTP server for the app on host:port and blocks until
// the server stops.
func (a *App) Run(host string, port int) error {
	a.Freeze()
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	a.logger.Info("application starting",
		zap.String("addr", addr),
		zap.String("document_root", a.app.DocumentRoot),
	)
	srv := &http.Server{Addr: addr, Handler: a}
	return srv.ListenAndServe()
}

// Shutdown stops accepting new requests and waits for in-flight
// requests to finish, or for the context to be canceled.
func (a *App) Shutdown(ctx context.Context) error {
	a.shutdownMu.Lock()
	a.shutdown = true
	a.shutdownMu.Unlock()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
