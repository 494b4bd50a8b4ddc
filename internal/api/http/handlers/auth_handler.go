package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/service"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// AuthHandler exposes the credential flow endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UsernameOrEmail == "" || req.Password == "" {
		return apperrors.NewValidationError("usernameOrEmail and password required", nil)
	}

	pair, err := h.auth.Login(c.UserContext(), req.UsernameOrEmail, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.OK("login successful", loginResponse(pair)))
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("username, email and password required", nil)
	}

	principal, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.OK("user registered",
		dto.RegisterResponse{User: dto.NewUserSummary(principal)}))
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.RefreshToken == "" {
		return apperrors.NewValidationError("refreshToken required", nil)
	}

	pair, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(dto.OK("token refreshed", loginResponse(pair)))
}

// Validate handles POST /auth/validate. Invalid tokens are reported in the
// body, not as an error status.
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	var req dto.ValidateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" {
		return apperrors.NewValidationError("token required", nil)
	}

	valid, expiresIn := h.auth.ValidateToken(req.Token)
	return c.JSON(dto.OK("token validated", dto.ValidateResponse{
		Valid:     valid,
		ExpiresIn: expiresIn,
	}))
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.OK("current user", dto.NewUserSummary(principal)))
}

// ChangePassword handles POST /auth/change-password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("currentPassword and newPassword required", nil)
	}

	if err := h.auth.ChangePassword(c.UserContext(), principal.Username, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.OK("password changed", nil))
}

func loginResponse(pair *service.TokenPair) dto.LoginResponse {
	return dto.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
		User:         dto.NewUserSummary(pair.Principal),
	}
}
