// Package requesttime pins one "now" per request so every decision and
// timestamp taken while serving it agrees.
package requesttime

import (
	"net/http"
	"time"

	"koe/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return MiddlewareWithClock(time.Now)(next)
}

// MiddlewareWithClock is Middleware with an injectable clock.
func MiddlewareWithClock(clock func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), clock().UTC())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
