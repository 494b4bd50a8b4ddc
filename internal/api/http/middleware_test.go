package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/observability"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

func userPrincipal(username string, roles ...string) *auth.Principal {
	return auth.ResolvePrincipal(&domain.User{
		ID:                    "id-" + username,
		Username:              username,
		Email:                 username + "@example.com",
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
		Roles:                 roles,
	})
}

func testApp() (*fiber.App, *observability.Metrics) {
	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, 5*time.Second)
	return app, metrics
}

func decodeErrorPayload(t *testing.T, app *fiber.App, method, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	return resp.StatusCode, payload
}

func TestErrorPayloadShape(t *testing.T) {
	app, _ := testApp()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return apperrors.NewValidationError("bad input", map[string]any{"field": "username"})
	})

	status, payload := decodeErrorPayload(t, app, "GET", "/boom")

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "bad input", payload["message"])
	assert.Equal(t, "VALIDATION_FAILED", payload["error"])
	assert.Equal(t, float64(fiber.StatusBadRequest), payload["status"])
	assert.Equal(t, "/boom", payload["path"])
	assert.NotEmpty(t, payload["timestamp"])

	details, ok := payload["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "username", details["field"])
}

func TestErrorPayloadOmitsEmptyDetails(t *testing.T) {
	app, _ := testApp()
	app.Get("/denied", func(c *fiber.Ctx) error {
		return apperrors.NewInvalidCredentials()
	})

	status, payload := decodeErrorPayload(t, app, "GET", "/denied")

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", payload["error"])
	assert.NotContains(t, payload, "details")
}

func TestErrorPayloadWrapsUnknownErrors(t *testing.T) {
	app, _ := testApp()
	app.Get("/oops", func(c *fiber.Ctx) error {
		return assert.AnError
	})

	status, payload := decodeErrorPayload(t, app, "GET", "/oops")

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", payload["error"])
	assert.Equal(t, "internal server error", payload["message"])
}

func TestErrorPayloadOnPanic(t *testing.T) {
	app, _ := testApp()
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("unexpected state")
	})

	status, payload := decodeErrorPayload(t, app, "GET", "/panic")

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", payload["error"])
}

func TestRuleEnforcementStatusCodes(t *testing.T) {
	app, _ := testApp()
	table, err := auth.NewRuleTable(DefaultAccessRules())
	require.NoError(t, err)

	// An authenticated USER for the role-gated checks.
	asUser := func(c *fiber.Ctx) error {
		c.Locals("auth_principal", userPrincipal("alice", "USER"))
		return c.Next()
	}

	app.Use(func(c *fiber.Ctx) error {
		if c.Get("X-Test-Login") != "" {
			return asUser(c)
		}
		return c.Next()
	})
	app.Use(table.Enforce())
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/health", ok)
	app.Get("/admin/stats", ok)
	app.Get("/users/profile", ok)

	cases := []struct {
		name   string
		path   string
		login  bool
		status int
	}{
		{"public path anonymous", "/health", false, fiber.StatusOK},
		{"protected path anonymous", "/users/profile", false, fiber.StatusUnauthorized},
		{"protected path authorized", "/users/profile", true, fiber.StatusOK},
		{"admin path as user", "/admin/stats", true, fiber.StatusForbidden},
		{"admin path anonymous", "/admin/stats", false, fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			if tc.login {
				req.Header.Set("X-Test-Login", "1")
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestAuthOutcomeRecorder(t *testing.T) {
	app, metrics := testApp()
	app.Use(AuthOutcomeRecorder(metrics))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	resp.Body.Close()

	_, _, authCounts := metrics.Snapshot()
	assert.Equal(t, int64(1), authCounts["anonymous"])
}
