package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/auth-service/internal/api/http"
	"github.com/spec-kit/auth-service/internal/api/http/handlers"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/observability"
	"github.com/spec-kit/auth-service/internal/persistence"
	"github.com/spec-kit/auth-service/internal/repository"
	"github.com/spec-kit/auth-service/internal/service"
	"github.com/spec-kit/auth-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Auth.ShortSecret {
		// Kept behavior-compatible: short secrets are padded, not rejected.
		logger.Warn("AUTH_JWT_SECRET is shorter than 32 bytes; it will be padded before signing")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL())
	throttle := service.NewLoginThrottle(redis.Client, cfg.Throttle, logger)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   userRepo,
		RoleRepo:   roleRepo,
		Tokens:     tokens,
		Throttle:   throttle,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	userService := service.NewUserService(userRepo, roleRepo, logger)
	roleService := service.NewRoleService(roleRepo, logger)

	authMiddleware := auth.NewMiddleware(tokens, userRepo, httptransport.PublicPaths(), logger)
	rules, err := auth.NewRuleTable(httptransport.DefaultAccessRules())
	if err != nil {
		logger.Fatal("failed to compile access rules", zap.Error(err))
	}

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Roles:          handlers.NewRolesHandler(roleService),
		System:         handlers.NewSystemHandler(cfg.App.Name, cfg.App.Version, cfg.App.Env, pg, redis, userService, metrics),
		AuthMiddleware: authMiddleware,
		Rules:          rules,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
