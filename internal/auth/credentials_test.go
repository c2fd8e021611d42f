package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentials_PlainPassword(t *testing.T) {
	creds := NewCredentials("admin", "burim1234!", "")

	assert.True(t, creds.Verify("admin", "burim1234!"))
	assert.False(t, creds.Verify("admin", "wrong"))
	assert.False(t, creds.Verify("root", "burim1234!"))
}

func TestCredentials_EmptyPasswordNeverMatches(t *testing.T) {
	creds := NewCredentials("admin", "", "")
	assert.False(t, creds.Verify("admin", ""))
}

func TestCredentials_BcryptHashTakesPrecedence(t *testing.T) {
	hash, err := HashPassword("hashed-secret")
	require.NoError(t, err)

	creds := NewCredentials("admin", "plain-secret", hash)
	assert.True(t, creds.Verify("admin", "hashed-secret"))
	assert.False(t, creds.Verify("admin", "plain-secret"))
}
