package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/observability"
	"github.com/spec-kit/auth-service/internal/persistence"
	"github.com/spec-kit/auth-service/internal/service"
)

// SystemHandler serves the public health/info endpoints and the admin stats
// endpoint.
type SystemHandler struct {
	serviceName string
	version     string
	env         string
	postgres    *persistence.Postgres
	redis       *persistence.Redis
	users       *service.UserService
	metrics     *observability.Metrics
}

// NewSystemHandler returns a new handler instance.
func NewSystemHandler(serviceName, version, env string, postgres *persistence.Postgres, redis *persistence.Redis, users *service.UserService, metrics *observability.Metrics) *SystemHandler {
	return &SystemHandler{
		serviceName: serviceName,
		version:     version,
		env:         env,
		postgres:    postgres,
		redis:       redis,
		users:       users,
		metrics:     metrics,
	}
}

// Health handles GET /health, checking dependency connectivity.
func (h *SystemHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	deps := fiber.Map{}
	healthy := true

	if err := h.postgres.Ping(ctx); err != nil {
		deps["postgres"] = err.Error()
		healthy = false
	} else {
		deps["postgres"] = "ok"
	}

	if err := h.redis.Ping(ctx); err != nil {
		// The throttle fails open without Redis, so this degrades rather than
		// failing the probe.
		deps["redis"] = err.Error()
	} else {
		deps["redis"] = "ok"
	}

	status := "up"
	code := fiber.StatusOK
	if !healthy {
		status = "down"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":       status,
		"service":      h.serviceName,
		"version":      h.version,
		"dependencies": deps,
		"timestamp":    time.Now().UTC(),
	})
}

// Info handles GET /info.
func (h *SystemHandler) Info(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service":     h.serviceName,
		"version":     h.version,
		"environment": h.env,
	})
}

// AdminStats handles GET /admin/stats.
func (h *SystemHandler) AdminStats(c *fiber.Ctx) error {
	stats, err := h.users.Stats(c.UserContext())
	if err != nil {
		return err
	}

	_, _, authOutcomes := h.metrics.Snapshot()
	return c.JSON(dto.OK("system stats", fiber.Map{
		"totalUsers":   stats.TotalUsers,
		"totalRoles":   stats.TotalRoles,
		"usersPerRole": stats.UsersPerRole,
		"authOutcomes": authOutcomes,
	}))
}
