package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Backend selects where contracts, expenses and the ledger are persisted.
type Backend string

const (
	BackendPostgres  Backend = "postgres"
	BackendFirestore Backend = "firestore"
	BackendMemory    Backend = "memory"
)

type Config struct {
	App struct {
		Name     string     `envconfig:"APP_NAME" default:"Agency"`
		Port     int        `envconfig:"PORT" default:"8080"`
		LogLevel slog.Level `envconfig:"LOG_LEVEL" default:"INFO"`
	}

	Store struct {
		Backend Backend `envconfig:"STORE_BACKEND" default:"postgres"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"agency"`
	}

	Firestore struct {
		ProjectID       string `envconfig:"FIRESTORE_PROJECT_ID"`
		CredentialsFile string `envconfig:"FIRESTORE_CREDENTIALS_FILE"`
	}

	Redis struct {
		// Empty keeps materializer runs serialized in-process only.
		Addr     string `envconfig:"REDIS_ADDR"`
		Password string `envconfig:"REDIS_PASSWORD"`
	}

	Ledger struct {
		Interval time.Duration `envconfig:"LEDGER_INTERVAL" default:"1h"`
		LockTTL  time.Duration `envconfig:"LEDGER_LOCK_TTL" default:"30s"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	Auth struct {
		// Empty disables bearer token verification.
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Store.Backend {
	case BackendPostgres, BackendMemory:
	case BackendFirestore:
		if cfg.Firestore.ProjectID == "" {
			return nil, fmt.Errorf("FIRESTORE_PROJECT_ID is required for the firestore backend")
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	return &cfg, nil
}
