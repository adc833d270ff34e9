// internal/pkg/auth/jwt_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/foodorder-backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "food-order-api-test",
		},
		JWT: config.JWTConfig{
			Secret:             "test-secret-key-that-is-long-enough-32",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 7 * 24 * time.Hour,
		},
		Security: config.SecurityConfig{
			BcryptCost: 4,
		},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateAccessToken(42, "user@example.com", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "access", claims.TokenType)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig())

	token, err := manager.GenerateRefreshToken(7, "user@example.com")
	require.NoError(t, err)

	claims, err := manager.ValidateRefreshToken(token)
	require.NoError(t, err)

	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "refresh", claims.TokenType)
	assert.False(t, claims.IsAdmin, "refresh tokens never carry admin status")
}

func TestTokenTypeMismatchRejected(t *testing.T) {
	manager := NewJWTManager(testConfig())

	accessToken, err := manager.GenerateAccessToken(1, "user@example.com", false)
	require.NoError(t, err)
	refreshToken, err := manager.GenerateRefreshToken(1, "user@example.com")
	require.NoError(t, err)

	_, err = manager.ValidateRefreshToken(accessToken)
	assert.Error(t, err)

	_, err = manager.ValidateAccessToken(refreshToken)
	assert.Error(t, err)
}

func TestTokenSignedWithWrongSecretRejected(t *testing.T) {
	manager := NewJWTManager(testConfig())

	otherCfg := testConfig()
	otherCfg.JWT.Secret = "another-secret-key-that-is-long-enough"
	other := NewJWTManager(otherCfg)

	token, err := other.GenerateAccessToken(1, "user@example.com", false)
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", ExtractTokenFromHeader("Bearer abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromHeader("abc.def.ghi"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
	assert.Equal(t, "", ExtractTokenFromHeader("Bearer "))
}

func TestPasswordHashAndVerify(t *testing.T) {
	manager := NewPasswordManager(testConfig())

	hash, err := manager.HashPassword("Admin123!")
	require.NoError(t, err)
	require.NotEqual(t, "Admin123!", hash)

	assert.NoError(t, manager.VerifyPassword("Admin123!", hash))
	assert.Error(t, manager.VerifyPassword("wrong-password", hash))
}

func TestPasswordLengthBounds(t *testing.T) {
	manager := NewPasswordManager(testConfig())

	_, err := manager.HashPassword("short")
	assert.Error(t, err)

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'a'
	}
	_, err = manager.HashPassword(string(long))
	assert.Error(t, err)
}
