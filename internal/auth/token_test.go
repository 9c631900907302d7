package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theetaz/complaint-service/internal/auth"
)

func newTokenManager(t *testing.T) *auth.TokenManager {
	t.Helper()
	tm, err := auth.NewTokenManager("test-secret", "HS256", 15, 60)
	require.NoError(t, err)
	return tm
}

func TestNewTokenManager(t *testing.T) {
	t.Parallel()

	t.Run("hmac algorithms", func(t *testing.T) {
		for _, alg := range []string{"HS256", "HS384", "HS512"} {
			tm, err := auth.NewTokenManager("secret", alg, 15, 60)
			require.NoError(t, err)
			require.NotNil(t, tm)
		}
	})

	t.Run("rejects non-hmac algorithms", func(t *testing.T) {
		for _, alg := range []string{"RS256", "none", "ES256", ""} {
			_, err := auth.NewTokenManager("secret", alg, 15, 60)
			require.Error(t, err)
		}
	})
}

func TestIssueAndDecode(t *testing.T) {
	t.Parallel()
	tm := newTokenManager(t)

	t.Run("access token round trip", func(t *testing.T) {
		token, expiresAt, err := tm.IssueAccess("alice@example.com")
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.True(t, expiresAt.After(time.Now()))

		claims := tm.Decode(token)
		assert.Equal(t, "alice@example.com", claims.Subject)
		assert.Equal(t, auth.TokenUseAccess, claims.TokenUse)
		require.NotNil(t, claims.ExpiresAt)
		assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
		assert.True(t, claims.ExpiresAt.After(time.Now()))
	})

	t.Run("refresh token round trip", func(t *testing.T) {
		token, _, err := tm.IssueRefresh("alice@example.com")
		require.NoError(t, err)

		claims := tm.Decode(token)
		assert.Equal(t, "alice@example.com", claims.Subject)
		assert.Equal(t, auth.TokenUseRefresh, claims.TokenUse)
	})

	t.Run("expired token still decodes structurally", func(t *testing.T) {
		token, _, err := tm.Issue("alice@example.com", auth.TokenUseAccess, -time.Minute)
		require.NoError(t, err)

		claims := tm.Decode(token)
		assert.Equal(t, "alice@example.com", claims.Subject)
		require.NotNil(t, claims.ExpiresAt)
		assert.True(t, claims.ExpiresAt.Before(time.Now()))
	})
}

func TestDecode_FailuresYieldEmptyClaims(t *testing.T) {
	t.Parallel()
	tm := newTokenManager(t)

	token, _, err := tm.IssueAccess("alice@example.com")
	require.NoError(t, err)

	other, err := auth.NewTokenManager("other-secret", "HS256", 15, 60)
	require.NoError(t, err)
	foreign, _, err := other.IssueAccess("alice@example.com")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	parts := strings.Split(token, ".")
	noSignature := parts[0] + "." + parts[1] + "."

	for name, input := range map[string]string{
		"garbage":      "not-a-jwt",
		"empty":        "",
		"wrong secret": foreign,
		"tampered":     tampered,
		"no signature": noSignature,
	} {
		t.Run(name, func(t *testing.T) {
			claims := tm.Decode(input)
			assert.Empty(t, claims.Subject)
		})
	}
}

func TestValidateRefresh(t *testing.T) {
	t.Parallel()
	tm := newTokenManager(t)

	t.Run("valid refresh token", func(t *testing.T) {
		token, _, err := tm.IssueRefresh("alice@example.com")
		require.NoError(t, err)

		subject, err := tm.ValidateRefresh(token)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", subject)
	})

	t.Run("valid just before expiry", func(t *testing.T) {
		token, _, err := tm.Issue("alice@example.com", auth.TokenUseRefresh, time.Minute)
		require.NoError(t, err)

		subject, err := tm.ValidateRefresh(token)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", subject)
	})

	t.Run("expired", func(t *testing.T) {
		token, _, err := tm.Issue("alice@example.com", auth.TokenUseRefresh, -time.Second)
		require.NoError(t, err)

		_, err = tm.ValidateRefresh(token)
		require.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("access token rejected", func(t *testing.T) {
		token, _, err := tm.IssueAccess("alice@example.com")
		require.NoError(t, err)

		_, err = tm.ValidateRefresh(token)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		token, _, err := tm.Issue("", auth.TokenUseRefresh, time.Minute)
		require.NoError(t, err)

		_, err = tm.ValidateRefresh(token)
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.ValidateRefresh("not-a-jwt")
		require.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
