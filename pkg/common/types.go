// Package common provides the shared types used across the digwebs framework:
// the per-request context, the response model, the dispatch result variants,
// the error taxonomy, and the middleware chain.
package common

// Handler is the innermost unit of request processing. It receives the
// per-request context and produces a dispatch result or an error.
// A nil result with a nil error means an empty response body.
type Handler func(ctx *Context) (Result, error)

// Next is the continuation a middleware invokes to proceed to the next
// middleware in the chain, or to the terminal handler once the chain is
// exhausted. Calling the continuation more than once is a programming
// error on the middleware author's part; the chain does not guard
// against it.
type Next func() (Result, error)

// Middleware is a unit of cross-cutting request-handling logic. It may
// inspect or modify the context, decide not to call next at all
// (short-circuit), or call next once and post-process the outcome.
type Middleware func(ctx *Context, next Next) (Result, error)
