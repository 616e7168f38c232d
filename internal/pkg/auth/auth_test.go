package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "Storefront"},
		JWT:      config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", AccessTokenExpiry: time.Hour, RecoveryExpiry: time.Minute},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateAccessToken(7, "alice@example.com", "admin")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "Storefront", claims.Issuer)

	_, err = m.ValidateRecoveryToken(token)
	assert.ErrorContains(t, err, "expected recovery")
}

func TestRecoveryToken(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateRecoveryToken(3, "bob@example.com")
	require.NoError(t, err)

	claims, err := m.ValidateRecoveryToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestTokenSignedWithOtherSecretIsRejected(t *testing.T) {
	other := testConfig()
	other.JWT.Secret = "ffffffffffffffffffffffffffffffff"

	token, err := NewJWTManager(other).GenerateAccessToken(1, "a@example.com", "user")
	require.NoError(t, err)

	_, err = NewJWTManager(testConfig()).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.AccessTokenExpiry = -time.Minute

	m := NewJWTManager(cfg)
	token, err := m.GenerateAccessToken(1, "a@example.com", "user")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Bearer "))
}

func TestPasswordManager(t *testing.T) {
	p := NewPasswordManager(testConfig())

	_, err := p.HashPassword("abc", MinPasswordLength)
	assert.ErrorContains(t, err, "at least 6")

	hash, err := p.HashPassword("secret1", MinPasswordLength)
	require.NoError(t, err)
	assert.NoError(t, p.VerifyPassword("secret1", hash))
	assert.Error(t, p.VerifyPassword("secret2", hash))

	short, err := p.Hash("1234")
	require.NoError(t, err)
	assert.NoError(t, p.VerifyPassword("1234", short))
}
