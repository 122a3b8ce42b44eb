package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"koe/internal/platform/metrics"
	request "koe/pkg/platform/middleware/request"
)

// LatencyMiddleware records request latency labelled by the matched chi
// route pattern, so path parameters do not explode label cardinality.
func LatencyMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &request.StatusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			status := rec.Status
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveRequest(r.Method, route, status, time.Since(start))
		})
	}
}
