package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/service"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// RolesHandler exposes role administration endpoints.
type RolesHandler struct {
	roles *service.RoleService
}

// NewRolesHandler constructs the handler.
func NewRolesHandler(roles *service.RoleService) *RolesHandler {
	return &RolesHandler{roles: roles}
}

// List handles GET /roles.
func (h *RolesHandler) List(c *fiber.Ctx) error {
	roles, err := h.roles.List(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]dto.RoleResponse, 0, len(roles))
	for i := range roles {
		out = append(out, dto.NewRoleResponse(&roles[i]))
	}
	return c.JSON(dto.OK("roles", out))
}

// GetByName handles GET /roles/name/:name.
func (h *RolesHandler) GetByName(c *fiber.Ctx) error {
	role, err := h.roles.GetByName(c.UserContext(), c.Params("name"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("role", dto.NewRoleResponse(role)))
}

// CountUsers handles GET /roles/count-users/:name.
func (h *RolesHandler) CountUsers(c *fiber.Ctx) error {
	name := c.Params("name")
	count, err := h.roles.CountUsers(c.UserContext(), name)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("role user count", dto.RoleUserCountResponse{
		Name:       name,
		UsersCount: count,
	}))
}

// Create handles POST /roles (admin).
func (h *RolesHandler) Create(c *fiber.Ctx) error {
	var req dto.RoleCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	role, err := h.roles.Create(c.UserContext(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("role created", dto.NewRoleResponse(role)))
}
