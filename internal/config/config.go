package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Salesboard"`
		Port     int    `envconfig:"PORT" default:"5000"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"transactions"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	TUI struct {
		// LogFile receives the TUI's logs. Logs are discarded when it is empty.
		LogFile string `envconfig:"TUI_LOG_FILE" default:""`
	}

	Seed struct {
		URL     string        `envconfig:"SEED_URL" default:"https://s3.amazonaws.com/roxiler.com/product_transaction.json"`
		OnStart bool          `envconfig:"SEED_ON_START" default:"true"`
		Timeout time.Duration `envconfig:"SEED_TIMEOUT" default:"30s"`

		// AllowReload mounts the /api/seed routes that replace the stored data.
		AllowReload bool `envconfig:"SEED_ALLOW_RELOAD" default:"false"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Level maps LOG_LEVEL onto a slog level, falling back to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	return slog.LevelInfo
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
