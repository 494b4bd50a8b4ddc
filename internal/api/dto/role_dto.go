package dto

import (
	"time"

	"github.com/spec-kit/auth-service/internal/domain"
)

// RoleCreateRequest carries the fields for a new role.
type RoleCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// RoleResponse is the role view returned by role endpoints.
type RoleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewRoleResponse maps a role record into its response view.
func NewRoleResponse(role *domain.Role) RoleResponse {
	return RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		CreatedAt:   role.CreatedAt,
	}
}

// RoleUserCountResponse reports membership size for one role.
type RoleUserCountResponse struct {
	Name       string `json:"name"`
	UsersCount int64  `json:"usersCount"`
}
