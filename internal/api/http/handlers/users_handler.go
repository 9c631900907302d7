package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/theetaz/complaint-service/internal/api/dto"
	"github.com/theetaz/complaint-service/internal/auth"
	"github.com/theetaz/complaint-service/internal/service"
	apperrors "github.com/theetaz/complaint-service/pkg/util"
)

// UsersHandler exposes profile endpoints for the authenticated principal.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Get handles GET /users/profile.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	email, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	user, err := h.users.GetByEmail(c.Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Update handles PATCH /users/profile.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	email, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.users.Update(c.Context(), email, service.UserUpdate{
		Name:          req.Name,
		Email:         req.Email,
		WalletAddress: req.WalletAddress,
		ProfileImage:  req.ProfileImage,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete handles DELETE /users/profile.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	email, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	if err := h.users.Delete(c.Context(), email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// ChangePassword handles POST /users/password/change.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	email, ok := auth.SubjectFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not authenticated")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current_password and new_password are required", nil)
	}

	if err := h.users.ChangePassword(c.Context(), email, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed": true}})
}
