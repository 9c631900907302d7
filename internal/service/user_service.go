package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/theetaz/complaint-service/internal/auth"
	"github.com/theetaz/complaint-service/internal/domain"
	"github.com/theetaz/complaint-service/internal/repository"
	apperrors "github.com/theetaz/complaint-service/pkg/util"
)

// UserUpdate carries optional profile fields; nil means leave unchanged.
type UserUpdate struct {
	Name          *string
	Email         *string
	WalletAddress *string
	ProfileImage  *string
}

// UserService handles profile operations for authenticated accounts.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// GetByEmail returns the account for email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, err
	}
	return user, nil
}

// Update applies profile changes. Changing the email requires the new
// address to be unused.
func (s *UserService) Update(ctx context.Context, email string, update UserUpdate) (*domain.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if update.Email != nil && *update.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, *update.Email); err == nil {
			return nil, apperrors.NewDuplicateEmail(*update.Email)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		user.Email = *update.Email
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.WalletAddress != nil {
		user.WalletAddress = update.WalletAddress
	}
	if update.ProfileImage != nil {
		user.ProfileImage = update.ProfileImage
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account.
func (s *UserService) Delete(ctx context.Context, email string) error {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.users.Delete(ctx, user.ID)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(currentPassword, user.PasswordHash) {
		return apperrors.NewInvalidCredentials("current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}
