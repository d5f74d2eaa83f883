package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateJWT("secret", userID, "buyer@precise.ai", "media_buyer", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT("secret", token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "buyer@precise.ai", claims.Email)
	assert.Equal(t, "media_buyer", claims.Role)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestParseJWTRejects(t *testing.T) {
	userID := uuid.New()

	valid, err := GenerateJWT("secret", userID, "a@b.c", "", time.Hour)
	require.NoError(t, err)
	fallback, err := GenerateJWT("secret", userID, "a@b.c", "", -time.Hour)
	require.NoError(t, err)
	anonymous, err := GenerateJWT("secret", uuid.Nil, "a@b.c", "", time.Hour)
	require.NoError(t, err)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other", valid},
		{"garbage", "secret", "not.a.token"},
		{"empty", "secret", ""},
		{"foreign issuer", "secret", foreign},
		{"nil user", "secret", anonymous},
		{"expired", "secret", expired},
		{"none alg", "secret", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJWT(tt.secret, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	// negative expiration falls back to the default lifetime
	_, err = ParseJWT("secret", fallback)
	assert.NoError(t, err)
}
