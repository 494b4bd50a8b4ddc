package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/service"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// UsersHandler exposes the profile endpoint and the admin user operations.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Profile handles GET /users/profile for the authenticated principal.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.OK("user profile", dto.NewUserSummary(principal)))
}

// Get handles GET /users/:username (admin).
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	principal, err := h.users.GetByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("user", dto.NewUserSummary(principal)))
}

// UpdateRoles handles PUT /users/:username/roles (admin).
func (h *UsersHandler) UpdateRoles(c *fiber.Ctx) error {
	var req dto.UserRolesUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	principal, err := h.users.ReplaceRoles(c.UserContext(), c.Params("username"), req.Roles)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("roles updated", dto.NewUserSummary(principal)))
}

// UpdateStatus handles PUT /users/:username/status (admin).
func (h *UsersHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UserStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Enabled == nil {
		return apperrors.NewValidationError("enabled required", nil)
	}

	principal, err := h.users.SetEnabled(c.UserContext(), c.Params("username"), *req.Enabled)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("status updated", dto.NewUserSummary(principal)))
}
