package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServerPort       string        `envconfig:"SERVER_PORT" default:"8080"`
	GinMode          string        `envconfig:"GIN_MODE" default:"release"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	RedisURL         string        `envconfig:"REDIS_URL" default:"redis://localhost:6379"`
	DatabaseURL      string        `envconfig:"DATABASE_URL"`
	OrdersAPIURL     string        `envconfig:"ORDERS_API_URL" default:"http://foodbar-backend-3.onrender.com/api/auth/orders"`
	OrdersAPITimeout time.Duration `envconfig:"ORDERS_API_TIMEOUT" default:"30s"`
	SessionKey       string        `envconfig:"SESSION_KEY" default:"user"`
	SessionTTL       time.Duration `envconfig:"SESSION_TTL" default:"1h"`
	ViewTTL          time.Duration `envconfig:"VIEW_TTL" default:"30m"`
	CurrencySymbol   string        `envconfig:"CURRENCY_SYMBOL" default:"$"`
	CookieSecure     bool          `envconfig:"COOKIE_SECURE" default:"false"`
}

// AuditEnabled reports whether fetches are recorded in Postgres.
func (c *Config) AuditEnabled() bool {
	return c.DatabaseURL != ""
}

func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if cfg.SessionKey == "" {
		return nil, fmt.Errorf("SESSION_KEY must not be empty")
	}
	if cfg.OrdersAPITimeout <= 0 {
		return nil, fmt.Errorf("ORDERS_API_TIMEOUT must be positive, got %s", cfg.OrdersAPITimeout)
	}
	return &cfg, nil
}
