// Package auth authenticates callers from a bearer token and places the
// acting party in the request context.
package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	request "koe/pkg/platform/middleware/request"
	"koe/pkg/requestcontext"
)

// JWTValidator defines the interface for validating JWT tokens
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims is the actor carried by a validated token.
type JWTClaims struct {
	ActorID string
	Role    string
	JTI     string
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth rejects requests without a valid bearer token. The actor id
// and role from the token are stored with requestcontext.WithActor.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}
			if claims.ActorID == "" || claims.Role == "" {
				logger.WarnContext(ctx, "unauthorized access - token without actor",
					"jti", claims.JTI,
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Token does not identify an actor")
				return
			}

			ctx = requestcontext.WithActor(ctx, claims.ActorID, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
