package dto

import (
	"github.com/spec-kit/auth-service/internal/auth"
)

// LoginRequest accepts either username or email as the identifier.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// RegisterRequest carries the fields for a new account.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// RefreshRequest carries the refresh token to exchange.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ValidateRequest carries a token for stand-alone validation.
type ValidateRequest struct {
	Token string `json:"token"`
}

// ChangePasswordRequest carries the current and replacement passwords.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserSummary is the principal view returned by auth endpoints.
type UserSummary struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	FullName  string   `json:"fullName"`
	Roles     []string `json:"roles"`
}

// NewUserSummary maps a principal into its response view.
func NewUserSummary(p *auth.Principal) UserSummary {
	return UserSummary{
		ID:        p.ID,
		Username:  p.Username,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		FullName:  p.FullName(),
		Roles:     p.RoleNames(),
	}
}

// LoginResponse is returned by login and refresh.
type LoginResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	TokenType    string      `json:"tokenType"`
	ExpiresIn    int64       `json:"expiresIn"`
	User         UserSummary `json:"user"`
}

// ValidateResponse reports stand-alone validation outcome.
type ValidateResponse struct {
	Valid     bool  `json:"valid"`
	ExpiresIn int64 `json:"expiresIn"`
}

// RegisterResponse confirms account creation without issuing tokens.
type RegisterResponse struct {
	User UserSummary `json:"user"`
}
