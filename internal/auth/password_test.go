package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/theetaz/complaint-service/internal/auth"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		hash, err := auth.HashPassword("s3cret-password", bcrypt.MinCost)
		require.NoError(t, err)
		require.NotEmpty(t, hash)
		assert.NotEqual(t, "s3cret-password", hash)
		assert.True(t, auth.VerifyPassword("s3cret-password", hash))
	})

	t.Run("fresh salt per call", func(t *testing.T) {
		first, err := auth.HashPassword("same-input", bcrypt.MinCost)
		require.NoError(t, err)
		second, err := auth.HashPassword("same-input", bcrypt.MinCost)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
		assert.True(t, auth.VerifyPassword("same-input", first))
		assert.True(t, auth.VerifyPassword("same-input", second))
	})

	t.Run("mismatched password", func(t *testing.T) {
		hash, err := auth.HashPassword("password-one", bcrypt.MinCost)
		require.NoError(t, err)
		assert.False(t, auth.VerifyPassword("password-two", hash))
	})
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	for _, hash := range []string{"", "not-a-bcrypt-hash", "$2a$xx$broken"} {
		assert.False(t, auth.VerifyPassword("anything", hash))
	}
}

func TestRandomPassword(t *testing.T) {
	t.Parallel()

	first, err := auth.RandomPassword()
	require.NoError(t, err)
	second, err := auth.RandomPassword()
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
