package middleware

import (
	"net"
	"strings"

	"github.com/m271828ngtao/digwebs/pkg/common"
)

// IPSourceType selects where the client IP is read from.
type IPSourceType string

const (
	// IPSourceRemoteAddr uses the transport-level peer address.
	IPSourceRemoteAddr IPSourceType = "remote_addr"

	// IPSourceXForwardedFor uses the first hop of the X-Forwarded-For header.
	IPSourceXForwardedFor IPSourceType = "x_forwarded_for"

	// IPSourceXRealIP uses the X-Real-IP header.
	IPSourceXRealIP IPSourceType = "x_real_ip"
)

// IPConfig configures client IP extraction.
type IPConfig struct {
	Source IPSourceType

	// TrustProxy determines whether proxy headers are trusted at all.
	// When false, the peer address is used regardless of Source.
	TrustProxy bool
}

// DefaultIPConfig trusts X-Forwarded-For, the common reverse-proxy setup.
func DefaultIPConfig() *IPConfig {
	return &IPConfig{Source: IPSourceXForwardedFor, TrustProxy: true}
}

// clientIPKey is the context key for the extracted client IP.
type clientIPKey struct{}

// ClientIP returns the client IP extracted by the IP middleware, or
// the empty string when it is not installed.
func ClientIP(ctx *common.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// IP returns a middleware that extracts the client IP per config and
// stores it on the context for downstream middleware such as rate
// limiting.
func IP(config *IPConfig) common.Middleware {
	if config == nil {
		config = DefaultIPConfig()
	}
	return func(ctx *common.Context, next common.Next) (common.Result, error) {
		ctx.Set(clientIPKey{}, extractIP(ctx, config))
		return next()
	}
}

func extractIP(ctx *common.Context, config *IPConfig) string {
	if config.TrustProxy {
		switch config.Source {
		case IPSourceXForwardedFor:
			if xff := ctx.Request.Header("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				return strings.TrimSpace(first)
			}
		case IPSourceXRealIP:
			if ip := ctx.Request.Header("X-Real-IP"); ip != "" {
				return strings.TrimSpace(ip)
			}
		}
	}
	addr := ctx.Request.RemoteAddr()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
