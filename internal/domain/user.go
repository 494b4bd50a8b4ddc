package domain

import "time"

// User is the credential record stored for an account. Role membership is kept
// as a set of role names resolved through the user_roles join relation, never as
// back-pointers into Role values.
type User struct {
	ID                    string
	Username              string
	Email                 string
	PasswordHash          string
	FirstName             string
	LastName              string
	Enabled               bool
	AccountNonExpired     bool
	AccountNonLocked      bool
	CredentialsNonExpired bool
	Roles                 []string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// AccountAvailable reports whether every account flag permits authentication.
func (u *User) AccountAvailable() bool {
	return u.Enabled && u.AccountNonExpired && u.AccountNonLocked && u.CredentialsNonExpired
}
