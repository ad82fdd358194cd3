package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Metrics returns the Prometheus metrics middleware.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			httpRequestsInFlight.Inc()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			httpRequestsInFlight.Dec()

			// Normalize path to keep label cardinality bounded
			path := normalizePath(r.URL.Path)

			httpRequestsTotal.WithLabelValues(
				r.Method,
				path,
				strconv.Itoa(wrapped.statusCode),
			).Inc()

			httpRequestDuration.WithLabelValues(
				r.Method,
				path,
			).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath replaces dynamic path segments with placeholders.
func normalizePath(path string) string {
	segments := make([]byte, 0, len(path))
	i := 0
	for i < len(path) {
		if path[i] == '/' {
			segments = append(segments, '/')
			i++
			start := i
			for i < len(path) && path[i] != '/' {
				i++
			}
			segment := path[start:i]
			if isID(segment) {
				segments = append(segments, "{id}"...)
			} else {
				segments = append(segments, segment...)
			}
		} else {
			segments = append(segments, path[i])
			i++
		}
	}
	return string(segments)
}

// isID checks if a path segment looks like a UUID or numeric ID.
func isID(s string) bool {
	if len(s) == 0 {
		return false
	}

	if len(s) == 36 {
		dashes := 0
		for _, c := range s {
			if c == '-' {
				dashes++
			} else if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
				return false
			}
		}
		if dashes == 4 {
			return true
		}
	}

	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) <= 20
}
