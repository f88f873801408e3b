package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pw1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", hash)

	assert.True(t, VerifyPassword(hash, "pw1"))
	assert.False(t, VerifyPassword(hash, "pw2"))
	assert.False(t, VerifyPassword("not-a-hash", "pw1"))
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_DefaultCost(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("pw", 0)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestHashPassword_TooLong(t *testing.T) {
	t.Parallel()

	_, err := HashPassword(strings.Repeat("x", 73), bcrypt.MinCost)
	require.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}
