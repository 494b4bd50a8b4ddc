package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// RoleService exposes role administration on top of the role store.
type RoleService struct {
	roles  repository.RoleRepository
	logger *zap.Logger
}

// NewRoleService builds the service.
func NewRoleService(roles repository.RoleRepository, logger *zap.Logger) *RoleService {
	return &RoleService{roles: roles, logger: logger}
}

// List returns all roles ordered by name.
func (s *RoleService) List(ctx context.Context) ([]domain.Role, error) {
	return s.roles.List(ctx)
}

// GetByName resolves a single role.
func (s *RoleService) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	role, err := s.roles.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("role", map[string]any{"name": name})
		}
		return nil, err
	}
	return role, nil
}

// Create adds a new role with a unique name.
func (s *RoleService) Create(ctx context.Context, name, description string) (*domain.Role, error) {
	exists, err := s.roles.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("DUPLICATE_ROLE", "role name is already in use")
	}

	role := &domain.Role{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	s.logger.Info("role created", zap.String("name", name))
	return role, nil
}

// CountUsers reports how many accounts hold the named role.
func (s *RoleService) CountUsers(ctx context.Context, name string) (int64, error) {
	exists, err := s.roles.ExistsByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, apperrors.NewNotFound("role", map[string]any{"name": name})
	}
	return s.roles.CountUsers(ctx, name)
}
