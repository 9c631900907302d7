package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/theetaz/complaint-service/internal/auth"
	"github.com/theetaz/complaint-service/internal/config"
	"github.com/theetaz/complaint-service/internal/domain"
	"github.com/theetaz/complaint-service/internal/events"
	"github.com/theetaz/complaint-service/internal/repository"
	apperrors "github.com/theetaz/complaint-service/pkg/util"
)

// resetThrottleLimit caps reset emails dispatched per address within one
// reset-token validity window.
const resetThrottleLimit = 3

// ResetLimiter counts reset requests per key within a rolling window.
type ResetLimiter interface {
	CountInWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// SSOLogin carries profile fields supplied by an external identity provider.
type SSOLogin struct {
	Email      string
	Name       string
	Image      *string
	Provider   *string
	ProviderID *string
}

// AuthService coordinates registration, login, token refresh, SSO and
// password-reset flows against the user repository.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	resets     *auth.ResetTokenCodec
	dispatcher events.Dispatcher
	limiter    ResetLimiter

	bcryptCost  int
	resetSalt   string
	resetMaxAge time.Duration
}

// AuthDependencies encapsulates collaborator requirements for the service.
// All collaborators are injected explicitly; the service never constructs
// defaults inside a call path.
type AuthDependencies struct {
	Users      repository.UserRepository
	Tokens     *auth.TokenManager
	Resets     *auth.ResetTokenCodec
	Dispatcher events.Dispatcher
	Limiter    ResetLimiter
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:       deps.Users,
		tokens:      deps.Tokens,
		resets:      deps.Resets,
		dispatcher:  deps.Dispatcher,
		limiter:     deps.Limiter,
		bcryptCost:  cfg.BcryptCost,
		resetSalt:   cfg.ResetTokenSalt,
		resetMaxAge: cfg.ResetTokenMaxAge(),
	}
}

// Register creates a new account with a hashed password.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateEmail(email)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.Email, nil)
	return user, nil
}

// Login authenticates by password and issues an access/refresh token pair
// bound to the account's email.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, nil, err
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, nil, apperrors.NewInvalidCredentials("incorrect email or password")
	}

	pair, err := s.issuePair(user.Email)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	email, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return "", time.Time{}, translateTokenErr(err)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return "", time.Time{}, err
	}

	return s.tokens.IssueAccess(user.Email)
}

// LoginSSO implements login-or-create for third-party identities. A missing
// account is created with a random throwaway password; an existing one is
// re-saved unchanged. Either way a fresh token pair is issued, so SSO login
// never fails on an existing account.
func (s *AuthService) LoginSSO(ctx context.Context, req SSOLogin) (*domain.User, *domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		password, err := auth.RandomPassword()
		if err != nil {
			return nil, nil, err
		}
		hash, err := auth.HashPassword(password, s.bcryptCost)
		if err != nil {
			return nil, nil, err
		}

		user = &domain.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			ProfileImage: req.Image,
			Provider:     req.Provider,
			ProviderID:   req.ProviderID,
			Role:         domain.RoleUser,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, nil, err
		}
	case err != nil:
		return nil, nil, err
	default:
		if err := s.users.Update(ctx, user); err != nil {
			return nil, nil, err
		}
	}

	pair, err := s.issuePair(user.Email)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RequestPasswordReset issues a signed reset link fragment for the email.
// The link is returned whether or not an account exists, so the endpoint
// cannot be used to probe for accounts; the delivery event fires only for
// real accounts, and only within the per-address throttle.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	token, err := s.resets.Sign(email, s.resetSalt)
	if err != nil {
		return "", err
	}
	link := "/auth/reset-password?token=" + token

	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return link, nil
		}
		return "", err
	}

	if s.allowResetDispatch(ctx, email) {
		s.publish(ctx, events.EventPasswordResetRequested, email,
			events.PasswordResetRequestedPayload{Link: link})
	}
	return link, nil
}

// ResetPassword verifies the reset token and persists a new password hash.
func (s *AuthService) ResetPassword(ctx context.Context, newPassword, token string) (*domain.User, error) {
	email, err := s.resets.Verify(token, s.resetSalt, s.resetMaxAge)
	if err != nil {
		return nil, translateTokenErr(err)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventPasswordChanged, user.Email, nil)
	return user, nil
}

func (s *AuthService) issuePair(email string) (*domain.TokenPair, error) {
	accessToken, accessExp, err := s.tokens.IssueAccess(email)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExp, err := s.tokens.IssueRefresh(email)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *AuthService) allowResetDispatch(ctx context.Context, email string) bool {
	if s.limiter == nil {
		return true
	}
	count, err := s.limiter.CountInWindow(ctx, "reset:"+email, s.resetMaxAge)
	if err != nil {
		// Throttling is best effort; an unavailable limiter never blocks
		// the reset flow.
		return true
	}
	return count <= resetThrottleLimit
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, subject string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func translateTokenErr(err error) error {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return apperrors.NewTokenExpired("token has expired")
	case errors.Is(err, auth.ErrInvalidToken):
		return apperrors.NewInvalidToken("invalid token")
	default:
		return err
	}
}
