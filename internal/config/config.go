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
		Name string `envconfig:"APP_NAME" default:"Billed"`
		Port int    `envconfig:"PORT" default:"5678"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"billed"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Auth struct {
		Secret   string        `envconfig:"JWT_SECRET" default:"dev-secret"`
		TokenTTL time.Duration `envconfig:"JWT_TTL" default:"24h"`
	}

	Storage struct {
		Dir       string `envconfig:"STORAGE_DIR" default:"./public"`
		PublicURL string `envconfig:"STORAGE_PUBLIC_URL" default:"http://localhost:5678/public"`
	}

	// Client settings are read by the terminal client. An empty API URL runs
	// it without a remote store.
	Client struct {
		APIURL  string        `envconfig:"API_URL" default:"http://localhost:5678"`
		Timeout time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
	}

	Session struct {
		Backend   string `envconfig:"SESSION_BACKEND" default:"file"`
		File      string `envconfig:"SESSION_FILE" default:""`
		RedisAddr string `envconfig:"SESSION_REDIS_ADDR" default:""`
		RedisKey  string `envconfig:"SESSION_REDIS_KEY" default:"billed:session"`
	}

	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// LogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
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
