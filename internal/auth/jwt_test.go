package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nordvik-as/sales-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	validator := NewJWTValidator(&config.AuthConfig{JWTSecret: testSecret})

	userID := uuid.New()
	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub":   userID.String(),
		"name":  "Ola Nordmann",
		"email": "ola.nordmann@nordvik.no",
		"roles": []string{RoleSales, RoleViewer},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	userCtx, err := validator.ValidateToken(tokenString)
	require.NoError(t, err)

	assert.Equal(t, userID, userCtx.UserID)
	assert.Equal(t, "Ola Nordmann", userCtx.DisplayName)
	assert.Equal(t, "ola.nordmann@nordvik.no", userCtx.Email)
	assert.True(t, userCtx.HasRole(RoleSales))
	assert.True(t, userCtx.HasAnyRole(RoleAdmin, RoleViewer))
	assert.False(t, userCtx.IsAdmin())
}

func TestValidateTokenWrongSecret(t *testing.T) {
	validator := NewJWTValidator(&config.AuthConfig{JWTSecret: testSecret})

	tokenString := signToken(t, "another-secret", jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := validator.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	validator := NewJWTValidator(&config.AuthConfig{JWTSecret: testSecret})

	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := validator.ValidateToken(tokenString)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenIssuerAndAudience(t *testing.T) {
	validator := NewJWTValidator(&config.AuthConfig{
		JWTSecret: testSecret,
		Issuer:    "https://id.nordvik.no",
		Audience:  "sales-api",
	})

	valid := signToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.New().String(),
		"iss": "https://id.nordvik.no",
		"aud": "sales-api",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, err := validator.ValidateToken(valid)
	require.NoError(t, err)

	wrongIssuer := signToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.New().String(),
		"iss": "https://id.example.com",
		"aud": "sales-api",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, err = validator.ValidateToken(wrongIssuer)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongAudience := signToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.New().String(),
		"iss": "https://id.nordvik.no",
		"aud": "other-api",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	_, err = validator.ValidateToken(wrongAudience)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenServiceAccountFallbackID(t *testing.T) {
	validator := NewJWTValidator(&config.AuthConfig{JWTSecret: testSecret})

	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"email": "service@nordvik.no",
		"role":  RoleAPIService,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	userCtx, err := validator.ValidateToken(tokenString)
	require.NoError(t, err)

	// A missing UUID subject derives a stable ID from the email.
	assert.Equal(t, uuid.NewSHA1(uuid.NameSpaceOID, []byte("service@nordvik.no")), userCtx.UserID)
	assert.True(t, userCtx.HasRole(RoleAPIService))
}
