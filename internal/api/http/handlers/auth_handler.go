package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/theetaz/complaint-service/internal/api/dto"
	"github.com/theetaz/complaint-service/internal/auth"
	"github.com/theetaz/complaint-service/internal/service"
	apperrors "github.com/theetaz/complaint-service/pkg/util"
)

// AuthHandler exposes registration, login and password-reset endpoints.
type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{auth: authService, users: userService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email and password are required", nil)
	}

	user, err := h.auth.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewUserResponse(user),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	user, pair, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.NewTokenPairResponse(pair),
		},
	})
}

// Refresh handles POST /auth/token/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationError("refresh_token is required", nil)
	}

	accessToken, expiresAt, err := h.auth.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.TokenPairResponse{
			AccessToken:     accessToken,
			TokenType:       "bearer",
			AccessExpiresAt: expiresAt,
		},
	})
}

// LoginSSO handles POST /auth/sso.
func (h *AuthHandler) LoginSSO(c *fiber.Ctx) error {
	var req dto.SSOLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Name == "" {
		return apperrors.NewValidationError("email and name are required", nil)
	}

	user, pair, err := h.auth.LoginSSO(c.Context(), service.SSOLogin{
		Email:      req.Email,
		Name:       req.Name,
		Image:      req.Image,
		Provider:   req.Provider,
		ProviderID: req.ProviderID,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.NewUserResponse(user),
			"auth": dto.NewTokenPairResponse(pair),
		},
	})
}

// Me handles GET /auth/me for the authenticated principal.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	email, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	user, err := h.users.GetByEmail(c.Context(), email)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.NewUserResponse(user),
	})
}

// RequestPasswordReset handles POST /auth/reset-password-email. The response
// shape is identical whether or not an account exists for the address.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email is required", nil)
	}

	link, err := h.auth.RequestPasswordReset(c.Context(), req.Email)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"reset_link": link},
	})
}

// ResetPassword handles POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("token and new_password are required", nil)
	}

	user, err := h.auth.ResetPassword(c.Context(), req.NewPassword, req.Token)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.NewUserResponse(user),
	})
}
