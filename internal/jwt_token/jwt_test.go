package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"koe/internal/caseledger/models"
	dErrors "koe/pkg/domain-errors"
)

var (
	jwtService = NewJWTService("test-signing-key", "test-issuer", "test-audience")
	owner      = models.Actor{ID: "bh-1", Role: models.RoleOwner}
)

func Test_GenerateAccessToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(owner, time.Hour)
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "bh-1", claims.Subject)
	assert.Equal(t, "BH", claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func Test_GenerateAccessToken_UnknownRole(t *testing.T) {
	_, err := jwtService.GenerateAccessToken(models.Actor{ID: "x", Role: "GUEST"}, time.Hour)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(owner, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token has expired")
}

func Test_ValidateToken_WrongIssuer(t *testing.T) {
	other := NewJWTService("test-signing-key", "someone-else", "test-audience")
	token, err := other.GenerateAccessToken(owner, time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_Adapter(t *testing.T) {
	token, err := jwtService.GenerateAccessToken(owner, time.Hour)
	require.NoError(t, err)

	claims, err := NewJWTServiceAdapter(jwtService).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "bh-1", claims.ActorID)
	assert.Equal(t, "BH", claims.Role)
}
