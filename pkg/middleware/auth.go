package middleware

import (
	"strings"

	"go.uber.org/zap"

	"github.com/m271828ngtao/digwebs/pkg/common"
)

// AuthFunc validates a bearer token and returns the authenticated user
// ID, or false when the token is invalid.
type AuthFunc func(token string) (string, bool)

// userIDKey is the context key for the authenticated user ID.
type userIDKey struct{}

// UserID returns the authenticated user ID stored by the Auth
// middleware, and whether one is present.
func UserID(ctx *common.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok
}

// Auth returns a middleware that requires a valid bearer token. A
// missing or invalid token short-circuits the chain with a declared
// 401; on success the user ID is stored on the context for handlers.
func Auth(authenticate AuthFunc, logger *zap.Logger) common.Middleware {
	return func(ctx *common.Context, next common.Next) (common.Result, error) {
		header := ctx.Request.Header("Authorization")
		if header == "" {
			logger.Warn("authentication failed: no authorization header",
				zap.String("method", ctx.Request.Method()),
				zap.String("path", ctx.Request.Path()),
			)
			return nil, common.Unauthorized()
		}

		token := strings.TrimPrefix(header, "Bearer ")
		id, ok := authenticate(token)
		if !ok {
			logger.Warn("authentication failed: invalid token",
				zap.String("method", ctx.Request.Method()),
				zap.String("path", ctx.Request.Path()),
			)
			return nil, common.Unauthorized()
		}

		ctx.Set(userIDKey{}, id)
		logger.Debug("authentication successful",
			zap.String("method", ctx.Request.Method()),
			zap.String("path", ctx.Request.Path()),
		)
		return next()
	}
}
