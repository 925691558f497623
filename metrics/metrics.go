// Package metrics exposes Prometheus collectors for the review service:
// inbound HTTP requests and outbound Airtable round trips.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reviewqueue"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "airtable_requests_total",
			Help:      "Total number of requests sent to the Airtable API",
		},
		[]string{"code", "method"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "airtable_request_duration_seconds",
			Help:      "Duration of Airtable API round trips in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"code", "method"},
	)

	upstreamInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "airtable_requests_in_flight",
			Help:      "Number of Airtable API requests currently in flight",
		},
	)
)

// Middleware records request count and duration for every request.
// Paths are labelled by their chi route pattern to keep cardinality bounded.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			path := routePattern(r)
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// InstrumentTransport wraps rt so that every Airtable round trip is counted
// and timed. A nil rt means http.DefaultTransport.
func InstrumentTransport(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperInFlight(upstreamInFlight,
		promhttp.InstrumentRoundTripperCounter(upstreamRequestsTotal,
			promhttp.InstrumentRoundTripperDuration(upstreamRequestDuration, rt),
		),
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// routePattern prefers the matched chi pattern and falls back to a
// normalized path for requests that never reached a route.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return normalizePath(r.URL.Path)
}

// normalizePath collapses dynamic segments:
// /record/3 -> /record/{index}, /records/recXYZ/status -> /records/{id}/status
func normalizePath(path string) string {
	switch path {
	case "/", "/nextrecord", "/records", "/statuses", "/health/live", "/metrics":
		return path
	}

	switch {
	case strings.HasPrefix(path, "/record/"):
		return "/record/{index}"
	case strings.HasPrefix(path, "/records/"):
		if strings.HasSuffix(path, "/status") {
			return "/records/{id}/status"
		}
		return "/records/{id}"
	}

	return "other"
}
