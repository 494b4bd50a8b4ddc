package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/auth-service/internal/domain"
)

func TestResolvePrincipal(t *testing.T) {
	user := &domain.User{
		ID:                    "u-1",
		Username:              "alice",
		Email:                 "alice@example.com",
		FirstName:             "Alice",
		LastName:              "Smith",
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
		Roles:                 []string{"USER", "MODERATOR"},
	}

	p := ResolvePrincipal(user)
	assert.Equal(t, "u-1", p.ID)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "Alice Smith", p.FullName())
	assert.True(t, p.AccountAvailable)
	assert.True(t, p.HasRole("USER"))
	assert.True(t, p.HasRole("MODERATOR"))
	assert.False(t, p.HasRole("ADMIN"))
	assert.True(t, p.HasAnyRole("ADMIN", "MODERATOR"))
	assert.False(t, p.HasAnyRole("ADMIN"))
	assert.Equal(t, []string{"MODERATOR", "USER"}, p.RoleNames())
}

func TestResolvePrincipalAvailabilityIsConjunction(t *testing.T) {
	base := domain.User{
		Username:              "bob",
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
	}

	flip := []func(u *domain.User){
		func(u *domain.User) { u.Enabled = false },
		func(u *domain.User) { u.AccountNonExpired = false },
		func(u *domain.User) { u.AccountNonLocked = false },
		func(u *domain.User) { u.CredentialsNonExpired = false },
	}
	for i, mutate := range flip {
		user := base
		mutate(&user)
		assert.False(t, ResolvePrincipal(&user).AccountAvailable, "flag %d", i)
	}

	assert.True(t, ResolvePrincipal(&base).AccountAvailable)
}

func TestResolvePrincipalEmptyRoles(t *testing.T) {
	p := ResolvePrincipal(&domain.User{Username: "norole", Enabled: true,
		AccountNonExpired: true, AccountNonLocked: true, CredentialsNonExpired: true})

	assert.Empty(t, p.RoleNames())
	assert.False(t, p.HasAnyRole("USER", "ADMIN", "MODERATOR"))
}
