package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theetaz/complaint-service/internal/auth"
)

const resetNamespace = "password-reset"

func TestResetTokenCodec_RoundTrip(t *testing.T) {
	t.Parallel()
	codec := auth.NewResetTokenCodec("test-secret")

	token, err := codec.Sign("alice@example.com", resetNamespace)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := codec.Verify(token, resetNamespace, 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)
}

func TestResetTokenCodec_NamespaceMismatch(t *testing.T) {
	t.Parallel()
	codec := auth.NewResetTokenCodec("test-secret")

	token, err := codec.Sign("alice@example.com", resetNamespace)
	require.NoError(t, err)

	// A fresh token under the wrong namespace is invalid, not expired.
	_, err = codec.Verify(token, "email-verify", 10*time.Minute)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestResetTokenCodec_MaxAge(t *testing.T) {
	t.Parallel()
	codec := auth.NewResetTokenCodec("test-secret")
	maxAge := 10 * time.Minute

	t.Run("just inside the window", func(t *testing.T) {
		token, err := codec.SignAt("alice@example.com", resetNamespace, time.Now().Add(-maxAge+time.Second))
		require.NoError(t, err)

		subject, err := codec.Verify(token, resetNamespace, maxAge)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", subject)
	})

	t.Run("past the window", func(t *testing.T) {
		token, err := codec.SignAt("alice@example.com", resetNamespace, time.Now().Add(-maxAge-time.Second))
		require.NoError(t, err)

		_, err = codec.Verify(token, resetNamespace, maxAge)
		require.ErrorIs(t, err, auth.ErrTokenExpired)
	})
}

func TestResetTokenCodec_InvalidTokens(t *testing.T) {
	t.Parallel()
	codec := auth.NewResetTokenCodec("test-secret")

	token, err := codec.Sign("alice@example.com", resetNamespace)
	require.NoError(t, err)
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	other := auth.NewResetTokenCodec("other-secret")
	foreign, err := other.Sign("alice@example.com", resetNamespace)
	require.NoError(t, err)

	for name, input := range map[string]string{
		"garbage":           "not-a-token",
		"empty":             "",
		"two parts":         parts[0] + "." + parts[1],
		"tampered payload":  "x" + token,
		"tampered sig":      parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2])),
		"different secret":  foreign,
		"invalid signature": parts[0] + "." + parts[1] + ".%%%",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Verify(input, resetNamespace, 10*time.Minute)
			require.ErrorIs(t, err, auth.ErrInvalidToken)
		})
	}
}
