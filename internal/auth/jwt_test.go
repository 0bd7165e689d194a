package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator() *JWTAuthenticator {
	return NewJWTAuthenticator("access-secret", "refresh-secret", "maidan", "maidan", time.Hour, 24*time.Hour)
}

func TestGenerateAndValidateTokens(t *testing.T) {
	a := newTestAuthenticator()

	access, refresh, err := a.GenerateTokens(42, "OWNER")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	parsed, err := a.ValidateAccessToken(access)
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "OWNER", claims["role"])

	_, err = a.ValidateRefreshToken(refresh)
	assert.NoError(t, err)
}

func TestAccessTokenRejectedAsRefresh(t *testing.T) {
	a := newTestAuthenticator()

	access, _, err := a.GenerateTokens(1, "USER")
	require.NoError(t, err)

	_, err = a.ValidateRefreshToken(access)
	assert.Error(t, err, "tokens signed with the access secret must not pass refresh validation")
}

func TestValidateRejectsTampering(t *testing.T) {
	a := newTestAuthenticator()

	access, _, err := a.GenerateTokens(1, "USER")
	require.NoError(t, err)

	_, err = a.ValidateAccessToken(access + "x")
	assert.Error(t, err)
}
