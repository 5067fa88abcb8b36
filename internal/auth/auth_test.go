// internal/auth/auth_test.go
package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
}

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)

	userID := uuid.New()
	token, err := issuer.Mint(userID, "alice")
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestTokenWrongSecret(t *testing.T) {
	a, err := NewIssuer("secret-a")
	require.NoError(t, err)
	b, err := NewIssuer("secret-b")
	require.NoError(t, err)

	token, err := a.Mint(uuid.New(), "alice")
	require.NoError(t, err)

	_, err = b.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEmptySecretRefused(t *testing.T) {
	_, err := NewIssuer("")
	assert.Error(t, err)
}
