package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// SystemStats aggregates the counts reported by the admin stats endpoint.
type SystemStats struct {
	TotalUsers   int64
	TotalRoles   int64
	UsersPerRole map[string]int64
}

// UserService covers the administrative user operations.
type UserService struct {
	users  repository.UserRepository
	roles  repository.RoleRepository
	logger *zap.Logger
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, roles: roles, logger: logger}
}

// GetByUsername resolves an account into its principal view.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*auth.Principal, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"username": username})
		}
		return nil, err
	}
	return auth.ResolvePrincipal(user), nil
}

// ReplaceRoles swaps an account's role set. Every requested role must exist;
// an empty set is allowed and simply locks the account out of role-gated
// routes.
func (s *UserService) ReplaceRoles(ctx context.Context, username string, roleNames []string) (*auth.Principal, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"username": username})
		}
		return nil, err
	}

	roleIDs := make([]string, 0, len(roleNames))
	resolved := make([]string, 0, len(roleNames))
	for _, name := range roleNames {
		role, err := s.roles.GetByName(ctx, name)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewValidationError("unknown role", map[string]any{"name": name})
			}
			return nil, err
		}
		roleIDs = append(roleIDs, role.ID)
		resolved = append(resolved, role.Name)
	}

	if err := s.users.ReplaceRoles(ctx, user.ID, roleIDs); err != nil {
		return nil, err
	}
	user.Roles = resolved

	s.logger.Info("roles replaced",
		zap.String("username", username),
		zap.Strings("roles", resolved))
	return auth.ResolvePrincipal(user), nil
}

// SetEnabled toggles the enabled flag on an account.
func (s *UserService) SetEnabled(ctx context.Context, username string, enabled bool) (*auth.Principal, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", map[string]any{"username": username})
		}
		return nil, err
	}

	user.Enabled = enabled
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("account status updated",
		zap.String("username", username),
		zap.Bool("enabled", enabled))
	return auth.ResolvePrincipal(user), nil
}

// Stats collects the counts shown on the admin stats endpoint.
func (s *UserService) Stats(ctx context.Context) (*SystemStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalRoles, err := s.roles.Count(ctx)
	if err != nil {
		return nil, err
	}

	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	perRole := make(map[string]int64, len(roles))
	for _, role := range roles {
		count, err := s.roles.CountUsers(ctx, role.Name)
		if err != nil {
			return nil, err
		}
		perRole[role.Name] = count
	}

	return &SystemStats{
		TotalUsers:   totalUsers,
		TotalRoles:   totalRoles,
		UsersPerRole: perRole,
	}, nil
}
