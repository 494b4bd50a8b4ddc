package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/domain"
)

const principalKey = "auth_principal"

// CredentialReader is the read side of the credential store; the middleware
// only ever loads records by exact username.
type CredentialReader interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Middleware resolves bearer tokens into a request-scoped principal. It never
// rejects a request by itself: every failed check leaves the request anonymous
// and the access rule table decides downstream.
type Middleware struct {
	tokens *TokenManager
	users  CredentialReader
	skip   map[string]struct{}
	logger *zap.Logger
}

// NewMiddleware constructs the authentication middleware. skipPaths is the
// exact set of public paths that bypass token inspection entirely.
func NewMiddleware(tokens *TokenManager, users CredentialReader, skipPaths []string, logger *zap.Logger) *Middleware {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, path := range skipPaths {
		skip[path] = struct{}{}
	}
	return &Middleware{tokens: tokens, users: users, skip: skip, logger: logger}
}

// Handle runs the per-request authentication pipeline: skip-check, bearer
// extraction, token validation, principal resolution, context population.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	if _, public := m.skip[c.Path()]; public {
		return c.Next()
	}

	tokenStr := bearerToken(c.Get(fiber.HeaderAuthorization))
	if tokenStr == "" {
		return c.Next()
	}

	if !m.tokens.IsValid(tokenStr) {
		m.logger.Debug("bearer token rejected", zap.String("path", c.Path()))
		return c.Next()
	}

	subject, err := m.tokens.Subject(tokenStr)
	if err != nil || subject == "" {
		return c.Next()
	}

	user, err := m.users.GetByUsername(c.UserContext(), subject)
	if err != nil {
		m.logger.Debug("token subject not resolvable", zap.String("subject", subject), zap.Error(err))
		return c.Next()
	}

	// Re-check against the loaded record in case the subject claim does not
	// match the stored username.
	if !m.tokens.IsValidFor(tokenStr, user.Username) {
		return c.Next()
	}

	tokenType, err := m.tokens.Classify(tokenStr)
	if err != nil || tokenType != TokenTypeAccess {
		// A refresh token must never grant API access.
		m.logger.Warn("non-access token presented as bearer credential",
			zap.String("subject", subject), zap.String("path", c.Path()))
		return c.Next()
	}

	principal := ResolvePrincipal(user)
	c.Locals(principalKey, principal)
	m.logger.Debug("request authenticated",
		zap.String("username", principal.Username),
		zap.Strings("roles", principal.RoleNames()))
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
