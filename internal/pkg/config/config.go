package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Resend   ResendConfig
	Admin    AdminConfig
}

type DatabaseConfig struct {
	// Path is the sqlite database file; ":memory:" is accepted for local runs.
	Path string `env:"DATABASE_PATH, default=contract-desk.db"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type SessionConfig struct {
	// Secret signs the session cookie. Mandatory outside development.
	Secret string `env:"SESSION_SECRET"`
	// BlockKey additionally encrypts the cookie value when set (16, 24 or
	// 32 bytes).
	BlockKey string        `env:"SESSION_BLOCK_KEY"`
	TTL      time.Duration `env:"SESSION_TTL, default=24h"`
}

type ResendConfig struct {
	APIKey string `env:"RESEND_API_KEY"`
	From   string `env:"RESEND_FROM, default=onboarding@resend.dev"`
	To     string `env:"RESEND_TO"`
}

// AdminConfig seeds the first admin account when the users table is empty.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Email    string `env:"ADMIN_EMAIL,    default=admin@localhost"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Env != "development" && cfg.Session.Secret == "" {
		return nil, fmt.Errorf("config: SESSION_SECRET must be set outside development")
	}
	return &cfg, nil
}

// Production reports whether the service runs with production hardening
// (secure cookies, JSON logs).
func (c *Config) Production() bool {
	return c.Env == "production"
}
