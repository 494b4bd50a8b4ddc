package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/http/handlers"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/observability"
)

// PublicPaths is the exact set of endpoints reachable without a token. The
// authentication middleware skips these entirely.
func PublicPaths() []string {
	return []string{
		"/auth/login",
		"/auth/register",
		"/auth/refresh",
		"/auth/validate",
		"/health",
		"/info",
	}
}

// DefaultAccessRules is the ordered route policy: public endpoints first, then
// the role-gated groups, with unmatched paths requiring authentication.
func DefaultAccessRules() []auth.RuleSpec {
	specs := make([]auth.RuleSpec, 0, 10)
	for _, path := range PublicPaths() {
		specs = append(specs, auth.RuleSpec{Pattern: path, Public: true})
	}
	return append(specs,
		auth.RuleSpec{Pattern: "/admin/**", Roles: []string{domain.RoleAdmin}},
		auth.RuleSpec{Pattern: "/users/**", Roles: []string{domain.RoleUser, domain.RoleAdmin, domain.RoleModerator}},
		auth.RuleSpec{Pattern: "/moderator/**", Roles: []string{domain.RoleModerator, domain.RoleAdmin}},
		auth.RuleSpec{Pattern: "/roles", Roles: []string{domain.RoleAdmin, domain.RoleModerator}},
		auth.RuleSpec{Pattern: "/roles/**", Roles: []string{domain.RoleAdmin, domain.RoleModerator}},
	)
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Roles          *handlers.RolesHandler
	System         *handlers.SystemHandler
	AuthMiddleware *auth.Middleware
	Rules          *auth.RuleTable
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes behind the authentication pipeline and the
// access rule table.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Handle)
	app.Use(AuthOutcomeRecorder(cfg.Metrics))
	app.Use(cfg.Rules.Enforce())

	app.Get("/health", cfg.System.Health)
	app.Get("/info", cfg.System.Info)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/refresh", cfg.Auth.Refresh)
	authGroup.Post("/validate", cfg.Auth.Validate)
	authGroup.Get("/me", cfg.Auth.Me)
	authGroup.Post("/change-password", cfg.Auth.ChangePassword)

	usersGroup := app.Group("/users")
	usersGroup.Get("/profile", cfg.Users.Profile)
	usersGroup.Get("/:username", auth.RequireRoles(domain.RoleAdmin), cfg.Users.Get)
	usersGroup.Put("/:username/roles", auth.RequireRoles(domain.RoleAdmin), cfg.Users.UpdateRoles)
	usersGroup.Put("/:username/status", auth.RequireRoles(domain.RoleAdmin), cfg.Users.UpdateStatus)

	rolesGroup := app.Group("/roles")
	rolesGroup.Get("/", cfg.Roles.List)
	rolesGroup.Get("/name/:name", cfg.Roles.GetByName)
	rolesGroup.Get("/count-users/:name", cfg.Roles.CountUsers)
	rolesGroup.Post("/", auth.RequireRoles(domain.RoleAdmin), cfg.Roles.Create)

	adminGroup := app.Group("/admin")
	adminGroup.Get("/stats", cfg.System.AdminStats)
}
