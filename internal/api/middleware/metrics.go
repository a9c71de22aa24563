package middleware

import (
	"net/http"
	"time"

	"github.com/Harshitk-cp/leaddesk/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics returns middleware that records request counts and latency per
// chi route pattern, so /api/leads/1 and /api/leads/2 share a series.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			m.ObserveHTTP(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
