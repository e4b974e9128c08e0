// Package middleware provides a collection of built-in middleware for
// the digwebs dispatch engine. Each middleware receives the per-request
// context and a continuation; it may short-circuit by not calling the
// continuation, or call it once and post-process the outcome.
package middleware

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/m271828ngtao/digwebs/pkg/common"
)

// statusOf derives the status line the dispatcher will ultimately emit
// for the given outcome: the recorded response status on success, the
// declared status for redirects and HTTP errors, 500 for anything else.
func statusOf(ctx *common.Context, err error) string {
	if err == nil {
		return ctx.Response.Status
	}
	var redirect *common.RedirectError
	if errors.As(err, &redirect) {
		return redirect.Status
	}
	var httpErr *common.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return "500 Internal Server Error"
}

// Logging returns a middleware that logs every request with its
// method, path, status and duration. Server errors log at Error level,
// client errors and slow requests at Warn, everything else at Debug to
// avoid log spam.
func Logging(logger *zap.Logger) common.Middleware {
	return func(ctx *common.Context, next common.Next) (common.Result, error) {
		start := time.Now()

		res, err := next()

		duration := time.Since(start)
		status := statusOf(ctx, err)
		code := common.StatusCode(status)

		fields := []zap.Field{
			zap.String("method", ctx.Request.Method()),
			zap.String("path", ctx.Request.Path()),
			zap.Int("status", code),
			zap.Duration("duration", duration),
		}
		if traceID := TraceID(ctx); traceID != "" {
			fields = append([]zap.Field{zap.String("trace_id", traceID)}, fields...)
		}

		switch {
		case code >= 500:
			logger.Error("server error", fields...)
		case code >= 400:
			logger.Warn("client error", fields...)
		case duration > time.Second:
			logger.Warn("slow request", fields...)
		default:
			logger.Debug("request", fields...)
		}

		return res, err
	}
}
