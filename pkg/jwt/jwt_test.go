package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("user-1", "kasir@example.com", "Kasir Satu", "CASHIER",
		[]string{"sale:create", "stock:return"}, "v1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "kasir@example.com", claims.Email)
	assert.Equal(t, "CASHIER", claims.RoleCode)
	assert.Equal(t, []string{"sale:create", "stock:return"}, claims.Privileges)
	assert.Equal(t, "v1", claims.TokenVersion)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := GenerateToken("user-1", "a@b.c", "A", "ADMIN", nil, "v1")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-b")
	_, err = ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSetSecretOverridesEnvironment(t *testing.T) {
	defer SetSecret("")
	t.Setenv("JWT_SECRET", "env-secret")

	SetSecret("configured-secret")
	assert.Equal(t, []byte("configured-secret"), GetSecretKey())

	token, err := GenerateToken("user-1", "a@b.c", "A", "ADMIN", nil, "v1")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	// Rotating the configured secret invalidates old tokens
	SetSecret("rotated-secret")
	_, err = ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Empty config falls back to the environment
	SetSecret("")
	assert.Equal(t, []byte("env-secret"), GetSecretKey())
}
