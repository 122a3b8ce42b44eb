package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"koe/internal/caseledger/models"
	dErrors "koe/pkg/domain-errors"
)

// Claims are the access token claims. The subject is the actor id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and validates actor tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	clock      func() time.Time
}

func NewJWTService(signingKey string, issuer string, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		clock:      time.Now,
	}
}

// GenerateAccessToken signs a token for actor.
func (s *JWTService) GenerateAccessToken(actor models.Actor, expiresIn time.Duration) (string, error) {
	if actor.ID == "" || !actor.Role.IsValid() {
		return "", dErrors.New(dErrors.CodeBadRequest, "actor id and a known role are required")
	}
	now := s.clock()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken checks signature, expiry, issuer and audience.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.clock),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if !models.Role(claims.Role).IsValid() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown role "+claims.Role)
	}
	return claims, nil
}
