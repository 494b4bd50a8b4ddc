package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/repository"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// TokenPair is the outcome of login and refresh: the issued tokens plus the
// resolved principal. ExpiresIn is the access token TTL in seconds.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	Principal    *auth.Principal
}

// RegisterInput carries the fields for a new account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthService orchestrates the credential flows: login, register, refresh,
// and change-password. It holds no per-request state.
type AuthService struct {
	users       repository.UserRepository
	roles       repository.RoleRepository
	tokens      *auth.TokenManager
	throttle    *LoginThrottle
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	bcryptCost  int
	defaultRole string
}

// AuthDependencies encapsulates collaborator requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	RoleRepo   repository.RoleRepository
	Tokens     *auth.TokenManager
	Throttle   *LoginThrottle
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:       deps.UserRepo,
		roles:       deps.RoleRepo,
		tokens:      deps.Tokens,
		throttle:    deps.Throttle,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		bcryptCost:  cfg.BcryptCost,
		defaultRole: cfg.DefaultRole,
	}
}

// Login authenticates by username or email and issues an access/refresh pair.
// Lookup misses, wrong passwords, and unavailable accounts are all reported as
// the same generic invalid-credentials failure.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*TokenPair, error) {
	if s.throttle.Blocked(ctx, usernameOrEmail) {
		s.logger.Warn("login throttled", zap.String("identifier", usernameOrEmail))
		return nil, apperrors.NewDomainError("TOO_MANY_ATTEMPTS",
			"too many failed login attempts", http.StatusTooManyRequests, nil)
	}

	user, err := s.users.GetByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("login for unknown identifier", zap.String("identifier", usernameOrEmail))
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.throttle.RecordFailure(ctx, usernameOrEmail)
		return nil, apperrors.NewInvalidCredentials()
	}

	if !user.AccountAvailable() {
		// Folded into the generic outcome so callers cannot probe account state.
		s.logger.Warn("login for unavailable account", zap.String("username", user.Username))
		return nil, apperrors.NewInvalidCredentials()
	}

	principal := auth.ResolvePrincipal(user)
	pair, err := s.issuePair(principal)
	if err != nil {
		return nil, err
	}

	s.throttle.Reset(ctx, usernameOrEmail)
	s.publish(ctx, events.EventLoginSucceeded, user.Username, nil)
	s.logger.Info("login succeeded", zap.String("username", user.Username))
	return pair, nil
}

// Register creates a new account with the default role. It does not log the
// account in; both uniqueness checks run before any hashing or store write.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*auth.Principal, error) {
	taken, err := s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflict("DUPLICATE_USERNAME", "username is already in use")
	}

	taken, err = s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.NewConflict("DUPLICATE_EMAIL", "email is already in use")
	}

	role, err := s.roles.GetByName(ctx, s.defaultRole)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:                    uuid.NewString(),
		Username:              input.Username,
		Email:                 input.Email,
		PasswordHash:          hash,
		FirstName:             input.FirstName,
		LastName:              input.LastName,
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
		Roles:                 []string{role.Name},
	}
	if err := s.users.Create(ctx, user, []string{role.ID}); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.Username, nil)
	s.logger.Info("user registered", zap.String("username", user.Username), zap.String("id", user.ID))
	return auth.ResolvePrincipal(user), nil
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token itself is returned unchanged; this design does not rotate it.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	tokenType, err := s.tokens.Classify(refreshToken)
	if err != nil {
		return nil, apperrors.NewInvalidToken()
	}
	if tokenType != auth.TokenTypeRefresh {
		return nil, apperrors.NewTokenTypeMismatch("token is not a refresh token")
	}
	if !s.tokens.IsValid(refreshToken) {
		return nil, apperrors.NewInvalidToken()
	}

	subject, err := s.tokens.Subject(refreshToken)
	if err != nil {
		return nil, apperrors.NewInvalidToken()
	}

	user, err := s.users.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewInvalidToken()
		}
		return nil, err
	}
	if !s.tokens.IsValidFor(refreshToken, user.Username) {
		return nil, apperrors.NewInvalidToken()
	}
	if !user.AccountAvailable() {
		return nil, apperrors.NewAccountUnavailable()
	}

	principal := auth.ResolvePrincipal(user)
	accessToken, _, err := s.tokens.IssueAccessToken(principal)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTokenRefreshed, user.Username, nil)
	s.logger.Debug("access token refreshed", zap.String("username", user.Username))
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
		Principal:    principal,
	}, nil
}

// ChangePassword verifies the current password, requires the new one to
// differ, and persists the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}

	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewValidationError("current password is incorrect", nil)
	}
	if auth.ComparePassword(user.PasswordHash, newPassword) == nil {
		return apperrors.NewValidationError("new password must differ from the current password", nil)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, events.EventPasswordChanged, username, nil)
	s.logger.Info("password changed", zap.String("username", username))
	return nil
}

// ValidateToken reports validity and remaining lifetime in seconds for a
// stand-alone validation endpoint.
func (s *AuthService) ValidateToken(token string) (bool, int64) {
	if !s.tokens.IsValid(token) {
		return false, 0
	}
	return true, int64(s.tokens.RemainingLifetime(token).Seconds())
}

// UserFromToken resolves the principal referenced by a valid token.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (*auth.Principal, error) {
	if !s.tokens.IsValid(token) {
		return nil, apperrors.NewInvalidToken()
	}
	subject, err := s.tokens.Subject(token)
	if err != nil {
		return nil, apperrors.NewInvalidToken()
	}
	user, err := s.users.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewInvalidToken()
		}
		return nil, err
	}
	return auth.ResolvePrincipal(user), nil
}

// Tokens exposes the token manager for middleware wiring.
func (s *AuthService) Tokens() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) issuePair(principal *auth.Principal) (*TokenPair, error) {
	accessToken, _, err := s.tokens.IssueAccessToken(principal)
	if err != nil {
		return nil, err
	}
	refreshToken, _, err := s.tokens.IssueRefreshToken(principal)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
		Principal:    principal,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, username string, metadata map[string]string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(eventType, username, metadata))
}
