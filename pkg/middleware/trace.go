package middleware

import (
	"github.com/google/uuid"

	"github.com/m271828ngtao/digwebs/pkg/common"
)

// traceIDKey is the context key for the per-request trace ID.
type traceIDKey struct{}

// Trace returns a middleware that assigns a unique trace ID to each
// request, stores it on the context for downstream middleware and
// handlers, and echoes it back to the client as an X-Trace-Id header.
// An inbound X-Trace-Id is honored so traces can span services.
func Trace() common.Middleware {
	return func(ctx *common.Context, next common.Next) (common.Result, error) {
		traceID := ctx.Request.Header("X-Trace-Id")
		if traceID == "" {
			traceID = uuid.New().String()
		}
		ctx.Set(traceIDKey{}, traceID)
		ctx.Response.SetHeader("X-Trace-Id", traceID)
		return next()
	}
}

// TraceID returns the request's trace ID, or the empty string when the
// Trace middleware is not installed.
func TraceID(ctx *common.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}
