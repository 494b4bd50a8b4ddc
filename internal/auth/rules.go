package auth

import (
	"fmt"
	"net/http"

	"github.com/gobwas/glob"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// Decision is the outcome of evaluating a request against the rule table.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionDeny
	DecisionUnauthenticated
)

// RuleSpec declares one ordered entry of the access rule table. A spec is
// PUBLIC, role-gated, or (with neither set) authenticated-any.
type RuleSpec struct {
	Pattern string
	Public  bool
	Roles   []string
}

type rule struct {
	pattern glob.Glob
	raw     string
	public  bool
	roles   map[string]struct{}
}

// RuleTable is the static, ordered route policy. It is compiled once at
// startup and evaluated first-match; unmatched paths require authentication
// with any role.
type RuleTable struct {
	rules []rule
}

// NewRuleTable compiles the ordered specs into an immutable table.
func NewRuleTable(specs []RuleSpec) (*RuleTable, error) {
	rules := make([]rule, 0, len(specs))
	for _, spec := range specs {
		compiled, err := glob.Compile(spec.Pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile rule pattern %q: %w", spec.Pattern, err)
		}
		roles := make(map[string]struct{}, len(spec.Roles))
		for _, role := range spec.Roles {
			roles[role] = struct{}{}
		}
		rules = append(rules, rule{pattern: compiled, raw: spec.Pattern, public: spec.Public, roles: roles})
	}
	return &RuleTable{rules: rules}, nil
}

// Evaluate decides route access for a path given the authentication context.
// principal is nil for anonymous requests.
func (t *RuleTable) Evaluate(path string, principal *Principal) Decision {
	for _, r := range t.rules {
		if !r.pattern.Match(path) {
			continue
		}
		if r.public {
			return DecisionAllow
		}
		if principal == nil {
			return DecisionUnauthenticated
		}
		if len(r.roles) == 0 {
			return DecisionAllow
		}
		for role := range r.roles {
			if principal.HasRole(role) {
				return DecisionAllow
			}
		}
		return DecisionDeny
	}
	if principal == nil {
		return DecisionUnauthenticated
	}
	return DecisionAllow
}

// Enforce translates rule decisions into responses: 401 for missing or invalid
// identity, 403 for a role mismatch.
func (t *RuleTable) Enforce() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		switch t.Evaluate(c.Path(), principal) {
		case DecisionAllow:
			return c.Next()
		case DecisionDeny:
			return apperrors.NewForbidden("insufficient role for this resource")
		default:
			return apperrors.NewUnauthorized("authentication required")
		}
	}
}

// RequireRoles guards a single route group beyond the table, mirroring the
// per-endpoint checks on admin operations.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized(http.StatusText(http.StatusUnauthorized))
		}
		if len(roles) > 0 && !principal.HasAnyRole(roles...) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}
