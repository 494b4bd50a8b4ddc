package domain

import "time"

// Built-in role names seeded by the initial migration.
const (
	RoleAdmin     = "ADMIN"
	RoleUser      = "USER"
	RoleModerator = "MODERATOR"
)

// Role is a named grant checked by the access rule table.
type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
