package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m271828ngtao/digwebs/pkg/common"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Registry receives the collectors. Defaults to the default
	// prometheus registerer when nil.
	Registry prometheus.Registerer

	Namespace string
	Subsystem string
}

// Metrics returns a middleware that records a request counter labeled
// by method, path and status, and a latency histogram labeled by
// method and path. Collectors are registered once, when the middleware
// is created; duplicate registration panics like any other
// misconfiguration at startup.
func Metrics(config MetricsConfig) common.Middleware {
	registry := config.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "requests_total",
		Help:      "Total number of dispatched requests.",
	}, []string{"method", "path", "status"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Subsystem: config.Subsystem,
		Name:      "request_duration_seconds",
		Help:      "Request dispatch latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	registry.MustRegister(requests, latency)

	return func(ctx *common.Context, next common.Next) (common.Result, error) {
		start := time.Now()

		res, err := next()

		method := ctx.Request.Method()
		path := ctx.Request.Path()
		code := strconv.Itoa(common.StatusCode(statusOf(ctx, err)))

		requests.WithLabelValues(method, path, code).Inc()
		latency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

		return res, err
	}
}

// MetricsHandler exposes the given registry for scraping; mount it on
// a plain HTTP mux alongside the app.
func MetricsHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
