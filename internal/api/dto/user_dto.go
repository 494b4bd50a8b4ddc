package dto

// UserRolesUpdateRequest replaces an account's full role set. An empty list is
// accepted; the account then fails every role-gated rule.
type UserRolesUpdateRequest struct {
	Roles []string `json:"roles"`
}

// UserStatusUpdateRequest toggles the enabled flag.
type UserStatusUpdateRequest struct {
	Enabled *bool `json:"enabled"`
}
