package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/config"
)

const throttleKeyPrefix = "login_attempts:"

// LoginThrottle counts failed login attempts per account in Redis. It fails
// open: if Redis is unreachable the login flow proceeds without throttling.
// A nil throttle is valid and disables all checks.
type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
	logger      *zap.Logger
}

// NewLoginThrottle builds a throttle; returns nil when disabled or without a
// Redis client.
func NewLoginThrottle(client *redis.Client, cfg config.ThrottleConfig, logger *zap.Logger) *LoginThrottle {
	if client == nil || !cfg.Enabled || cfg.MaxAttempts <= 0 {
		return nil
	}
	return &LoginThrottle{
		client:      client,
		maxAttempts: cfg.MaxAttempts,
		window:      cfg.Window(),
		logger:      logger,
	}
}

// Blocked reports whether the identifier has exhausted its attempts.
func (t *LoginThrottle) Blocked(ctx context.Context, identifier string) bool {
	if t == nil {
		return false
	}
	count, err := t.client.Get(ctx, t.key(identifier)).Int64()
	if err != nil {
		if err != redis.Nil {
			t.logger.Warn("login throttle read failed", zap.Error(err))
		}
		return false
	}
	return count >= int64(t.maxAttempts)
}

// RecordFailure increments the failure counter, starting the window on the
// first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, identifier string) {
	if t == nil {
		return
	}
	key := t.key(identifier)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		t.logger.Warn("login throttle increment failed", zap.Error(err))
		return
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			t.logger.Warn("login throttle expire failed", zap.Error(err))
		}
	}
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, identifier string) {
	if t == nil {
		return
	}
	if err := t.client.Del(ctx, t.key(identifier)).Err(); err != nil {
		t.logger.Warn("login throttle reset failed", zap.Error(err))
	}
}

func (t *LoginThrottle) key(identifier string) string {
	return throttleKeyPrefix + strings.ToLower(identifier)
}
