package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/theetaz/complaint-service/internal/auth"
	"github.com/theetaz/complaint-service/internal/domain"
	"github.com/theetaz/complaint-service/internal/service"
)

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{Name: "Alice", Email: email, PasswordHash: hash, Role: domain.RoleUser}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestUserServiceGetByEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := service.NewUserService(repo, bcrypt.MinCost)
	seedUser(t, repo, "alice@example.com", "s3cret-pass")

	user, err := svc.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	_, err = svc.GetByEmail(ctx, "nobody@example.com")
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestUserServiceUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("partial profile update", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := service.NewUserService(repo, bcrypt.MinCost)
		seedUser(t, repo, "alice@example.com", "s3cret-pass")

		name := "Alice B."
		wallet := "0xabc123"
		user, err := svc.Update(ctx, "alice@example.com", service.UserUpdate{
			Name:          &name,
			WalletAddress: &wallet,
		})
		require.NoError(t, err)
		assert.Equal(t, "Alice B.", user.Name)
		require.NotNil(t, user.WalletAddress)
		assert.Equal(t, "0xabc123", *user.WalletAddress)
		assert.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("email change to an unused address", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := service.NewUserService(repo, bcrypt.MinCost)
		seedUser(t, repo, "alice@example.com", "s3cret-pass")

		newEmail := "alice@new.example.com"
		user, err := svc.Update(ctx, "alice@example.com", service.UserUpdate{Email: &newEmail})
		require.NoError(t, err)
		assert.Equal(t, newEmail, user.Email)

		_, err = svc.GetByEmail(ctx, "alice@example.com")
		requireDomainCode(t, err, "NOT_FOUND")
	})

	t.Run("email change to a taken address", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := service.NewUserService(repo, bcrypt.MinCost)
		seedUser(t, repo, "alice@example.com", "s3cret-pass")
		seedUser(t, repo, "bob@example.com", "other-pass")

		taken := "bob@example.com"
		_, err := svc.Update(ctx, "alice@example.com", service.UserUpdate{Email: &taken})
		requireDomainCode(t, err, "DUPLICATE_EMAIL")
	})
}

func TestUserServiceDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := service.NewUserService(repo, bcrypt.MinCost)
	seedUser(t, repo, "alice@example.com", "s3cret-pass")

	require.NoError(t, svc.Delete(ctx, "alice@example.com"))

	err := svc.Delete(ctx, "alice@example.com")
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestUserServiceChangePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("correct current password", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := service.NewUserService(repo, bcrypt.MinCost)
		seedUser(t, repo, "alice@example.com", "old-pass")

		require.NoError(t, svc.ChangePassword(ctx, "alice@example.com", "old-pass", "new-pass"))

		user, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.True(t, auth.VerifyPassword("new-pass", user.PasswordHash))
		assert.False(t, auth.VerifyPassword("old-pass", user.PasswordHash))
	})

	t.Run("wrong current password leaves the hash alone", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := service.NewUserService(repo, bcrypt.MinCost)
		seeded := seedUser(t, repo, "alice@example.com", "old-pass")

		err := svc.ChangePassword(ctx, "alice@example.com", "wrong-pass", "new-pass")
		requireDomainCode(t, err, "INVALID_CREDENTIALS")

		user, err := repo.GetByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, seeded.PasswordHash, user.PasswordHash)
	})
}
