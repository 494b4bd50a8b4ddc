package auth

import (
	"sort"
	"strings"

	"github.com/spec-kit/auth-service/internal/domain"
)

// Principal is the resolved, authorization-ready identity for one request. It
// is rebuilt from the credential store on every authenticated request and never
// cached.
type Principal struct {
	ID               string
	Username         string
	Email            string
	FirstName        string
	LastName         string
	AccountAvailable bool

	roles map[string]struct{}
}

// ResolvePrincipal maps a credential record into a Principal. Role names are
// taken verbatim from the record; case handling belongs to the store.
func ResolvePrincipal(u *domain.User) *Principal {
	roles := make(map[string]struct{}, len(u.Roles))
	for _, name := range u.Roles {
		roles[name] = struct{}{}
	}
	return &Principal{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		AccountAvailable: u.AccountAvailable(),
		roles:            roles,
	}
}

// HasRole reports membership of a single role.
func (p *Principal) HasRole(name string) bool {
	_, ok := p.roles[name]
	return ok
}

// HasAnyRole reports whether the principal holds at least one of the roles.
func (p *Principal) HasAnyRole(names ...string) bool {
	for _, name := range names {
		if p.HasRole(name) {
			return true
		}
	}
	return false
}

// RoleNames returns the role set as a sorted slice.
func (p *Principal) RoleNames() []string {
	names := make([]string, 0, len(p.roles))
	for name := range p.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FullName joins first and last name for display.
func (p *Principal) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
