// internal/pkg/auth/auth_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordManager_HashAndVerify(t *testing.T) {
	pm := NewPasswordManager(4) // minimum cost keeps the test fast

	hash, err := pm.HashPassword("Sup3rSecret")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret", hash)

	assert.NoError(t, pm.VerifyPassword(hash, "Sup3rSecret"))
	assert.Error(t, pm.VerifyPassword(hash, "wrong-password"))
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.NoError(t, ValidatePasswordStrength("Sup3rSecret"))
	assert.Error(t, ValidatePasswordStrength("short1A"))
	assert.Error(t, ValidatePasswordStrength("alllowercase1"))
	assert.Error(t, ValidatePasswordStrength("ALLUPPERCASE1"))
	assert.Error(t, ValidatePasswordStrength("NoDigitsHere"))
}

func TestJWTManager_TokenRoundTrip(t *testing.T) {
	m := NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour, 24*time.Hour, "test")

	pair, err := m.GenerateTokenPair(42, "customer@example.com", "customer")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	claims, err := m.ValidateToken(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "customer@example.com", claims.Email)
	assert.Equal(t, "customer", claims.Role)
}

func TestJWTManager_RejectsWrongTokenType(t *testing.T) {
	m := NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour, 24*time.Hour, "test")

	pair, err := m.GenerateTokenPair(1, "a@example.com", "customer")
	require.NoError(t, err)

	_, err = m.ValidateToken(pair.RefreshToken, TokenTypeAccess)
	assert.Error(t, err)
	_, err = m.ValidateToken(pair.AccessToken, TokenTypeRefresh)
	assert.Error(t, err)
}

func TestJWTManager_RejectsForeignSignature(t *testing.T) {
	a := NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour, 24*time.Hour, "test")
	b := NewJWTManager("ffffffffffffffffffffffffffffffff", time.Hour, 24*time.Hour, "test")

	pair, err := a.GenerateTokenPair(1, "a@example.com", "customer")
	require.NoError(t, err)

	_, err = b.ValidateToken(pair.AccessToken, TokenTypeAccess)
	assert.Error(t, err)
}

func TestJWTManager_RefreshAccessToken(t *testing.T) {
	m := NewJWTManager("0123456789abcdef0123456789abcdef", time.Hour, 24*time.Hour, "test")

	pair, err := m.GenerateTokenPair(7, "b@example.com", "admin")
	require.NoError(t, err)

	fresh, err := m.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := m.ValidateToken(fresh.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}
