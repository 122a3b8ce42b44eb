package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"koe/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) { return s.claims, s.err }

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var seenID, seenRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = requestcontext.ActorID(r.Context())
		seenRole = requestcontext.ActorRole(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name      string
		header    string
		validator JWTValidator
		status    int
	}{
		{"missing header", "", stubValidator{}, http.StatusUnauthorized},
		{"not bearer", "Basic abc", stubValidator{}, http.StatusUnauthorized},
		{"invalid token", "Bearer abc", stubValidator{err: errors.New("bad")}, http.StatusUnauthorized},
		{"token without role", "Bearer abc", stubValidator{claims: &JWTClaims{ActorID: "te-1"}}, http.StatusUnauthorized},
		{"valid token", "Bearer abc", stubValidator{claims: &JWTClaims{ActorID: "te-1", Role: "TE"}}, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenID, seenRole = "", ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			RequireAuth(tt.validator, logger)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, "te-1", seenID)
				assert.Equal(t, "TE", seenRole)
			} else {
				assert.Empty(t, seenID)
				assert.Contains(t, w.Body.String(), `"error":"unauthorized"`)
			}
		})
	}
}
