package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRuleTable(t *testing.T) *RuleTable {
	t.Helper()
	table, err := NewRuleTable([]RuleSpec{
		{Pattern: "/auth/login", Public: true},
		{Pattern: "/health", Public: true},
		{Pattern: "/admin/**", Roles: []string{"ADMIN"}},
		{Pattern: "/users/**", Roles: []string{"USER", "ADMIN", "MODERATOR"}},
		{Pattern: "/moderator/**", Roles: []string{"MODERATOR", "ADMIN"}},
	})
	require.NoError(t, err)
	return table
}

func TestRuleTablePublic(t *testing.T) {
	table := testRuleTable(t)

	assert.Equal(t, DecisionAllow, table.Evaluate("/auth/login", nil))
	assert.Equal(t, DecisionAllow, table.Evaluate("/health", nil))
	// Public rules allow regardless of context.
	assert.Equal(t, DecisionAllow, table.Evaluate("/health", testPrincipal("alice", "USER")))
}

func TestRuleTableRoleGate(t *testing.T) {
	table := testRuleTable(t)
	user := testPrincipal("alice", "USER")
	admin := testPrincipal("root", "ADMIN")

	assert.Equal(t, DecisionDeny, table.Evaluate("/admin/stats", user))
	assert.Equal(t, DecisionAllow, table.Evaluate("/admin/stats", admin))
	assert.Equal(t, DecisionAllow, table.Evaluate("/users/profile", user))
	assert.Equal(t, DecisionAllow, table.Evaluate("/moderator/queue", admin))
	assert.Equal(t, DecisionDeny, table.Evaluate("/moderator/queue", user))
}

func TestRuleTableAnonymous(t *testing.T) {
	table := testRuleTable(t)

	assert.Equal(t, DecisionUnauthenticated, table.Evaluate("/admin/stats", nil))
	assert.Equal(t, DecisionUnauthenticated, table.Evaluate("/users/profile", nil))
	// Unmatched paths default to authenticated-any.
	assert.Equal(t, DecisionUnauthenticated, table.Evaluate("/anything/else", nil))
	assert.Equal(t, DecisionAllow, table.Evaluate("/anything/else", testPrincipal("alice")))
}

func TestRuleTableEmptyRoleSetDenied(t *testing.T) {
	table := testRuleTable(t)
	stripped := testPrincipal("norole")

	assert.Equal(t, DecisionDeny, table.Evaluate("/users/profile", stripped))
	assert.Equal(t, DecisionAllow, table.Evaluate("/anything/else", stripped))
}

func TestRuleTableFirstMatchWins(t *testing.T) {
	table, err := NewRuleTable([]RuleSpec{
		{Pattern: "/api/public/**", Public: true},
		{Pattern: "/api/**", Roles: []string{"ADMIN"}},
	})
	require.NoError(t, err)

	assert.Equal(t, DecisionAllow, table.Evaluate("/api/public/docs", nil))
	assert.Equal(t, DecisionUnauthenticated, table.Evaluate("/api/secrets", nil))
}

func TestRuleTableAuthenticatedAnyRule(t *testing.T) {
	table, err := NewRuleTable([]RuleSpec{
		{Pattern: "/profile/**"},
	})
	require.NoError(t, err)

	assert.Equal(t, DecisionUnauthenticated, table.Evaluate("/profile/me", nil))
	assert.Equal(t, DecisionAllow, table.Evaluate("/profile/me", testPrincipal("norole")))
}

func TestRuleTableInvalidPattern(t *testing.T) {
	_, err := NewRuleTable([]RuleSpec{{Pattern: "/bad/["}})
	assert.Error(t, err)
}
