package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/observability"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

// AuthOutcomeRecorder counts how each request's authentication resolved. It
// runs after the auth middleware and before rule enforcement.
func AuthOutcomeRecorder(metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := auth.PrincipalFromContext(c); ok {
			metrics.RecordAuthOutcome("authenticated")
		} else {
			metrics.RecordAuthOutcome("anonymous")
		}
		return c.Next()
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)

				response := fiber.Map{
					"success":   false,
					"message":   domainErr.Message,
					"error":     domainErr.Code,
					"status":    domainErr.HTTPStatus,
					"path":      c.Path(),
					"timestamp": time.Now().UTC(),
				}
				if len(domainErr.Details) > 0 {
					response["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}
