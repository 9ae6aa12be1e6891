package utils

import (
	"testing"
	"time"

	"foodgram-go/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setJWTConfig(t *testing.T, secret string, hours int) {
	t.Helper()
	config.Set(&config.Config{
		App: config.AppConfig{Name: "foodgram-test"},
		JWT: config.JWTConfig{Secret: secret, ExpireHours: hours},
	})
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, VerifyPassword("s3cret-pass", hash))
	assert.False(t, VerifyPassword("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	setJWTConfig(t, "secret-a", 1)

	token, err := GenerateToken(42)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "foodgram-test", claims.Issuer)

	remaining := claims.Remaining(time.Now())
	assert.Greater(t, remaining, 59*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)

	other, err := GenerateToken(42)
	require.NoError(t, err)
	otherClaims, err := ParseToken(other)
	require.NoError(t, err)
	assert.NotEqual(t, claims.ID, otherClaims.ID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	setJWTConfig(t, "secret-a", 1)
	token, err := GenerateToken(1)
	require.NoError(t, err)

	setJWTConfig(t, "secret-b", 1)
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	setJWTConfig(t, "secret-a", 1)

	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret-a"))
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Zero(t, claims.Remaining(time.Now()))
}
