package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Throttle ThrottleConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token signing and password hashing parameters. Secrets
// shorter than 32 bytes are padded by the codec; ShortSecret flags them so
// startup can warn instead of failing silently.
type AuthConfig struct {
	JWTSecret              string
	AccessTokenTTLMinutes  int
	RefreshTokenTTLMinutes int
	BcryptCost             int
	DefaultRole            string
	ShortSecret            bool
}

// ThrottleConfig bounds failed login attempts per account.
type ThrottleConfig struct {
	Enabled       bool
	MaxAttempts   int
	WindowMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	secret := getEnv("AUTH_JWT_SECRET", "dev-secret")

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "auth-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:              secret,
			AccessTokenTTLMinutes:  getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 1440),
			RefreshTokenTTLMinutes: getEnvAsInt("AUTH_REFRESH_TOKEN_TTL_MINUTES", 10080),
			BcryptCost:             getEnvAsInt("AUTH_BCRYPT_COST", 12),
			DefaultRole:            getEnv("AUTH_DEFAULT_ROLE", "USER"),
			ShortSecret:            len(secret) < 32,
		},
		Throttle: ThrottleConfig{
			Enabled:       getEnvAsBool("LOGIN_THROTTLE_ENABLED", true),
			MaxAttempts:   getEnvAsInt("LOGIN_THROTTLE_MAX_ATTEMPTS", 10),
			WindowMinutes: getEnvAsInt("LOGIN_THROTTLE_WINDOW_MINUTES", 15),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// AccessTokenTTL returns the access token lifetime.
func (a AuthConfig) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTokenTTL returns the refresh token lifetime.
func (a AuthConfig) RefreshTokenTTL() time.Duration {
	return time.Duration(a.RefreshTokenTTLMinutes) * time.Minute
}

// Window returns the throttle window duration.
func (t ThrottleConfig) Window() time.Duration {
	return time.Duration(t.WindowMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
