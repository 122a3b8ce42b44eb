package ratelimit

import (
	"net/http"
	"strconv"

	"koe/pkg/platform/httputil"
	request "koe/pkg/platform/middleware/request"
	"koe/pkg/requestcontext"
)

// Writes limits non-safe requests per authenticated actor. It must run
// after authentication. Store errors let the request through.
func (l *Limiter) Writes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actorID := requestcontext.ActorID(ctx)
		if isSafe(r.Method) || actorID == "" {
			next.ServeHTTP(w, r)
			return
		}

		res, degraded, err := l.Allow(ctx, "actor:"+actorID)
		if err != nil {
			if l.logger != nil {
				l.logger.ErrorContext(ctx, "failed to check actor rate limit",
					"error", err,
					"actor_id", actorID,
					"request_id", request.GetRequestID(ctx),
				)
			}
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
		if degraded {
			w.Header().Set("X-RateLimit-Status", "degraded")
		}
		if !res.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(res.RetryAfter(l.clock())))
			httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.ErrorResponse{
				Error:            "rate_limit_exceeded",
				ErrorDescription: "too many submissions, try again later",
				Retryable:        true,
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isSafe(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}
