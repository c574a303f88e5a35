package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store backends.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// Store selects the persistence backend: mongo or memory.
	Store string `env:"STORE, default=mongo"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Audit AuditConfig
}

type AuthConfig struct {
	JWTSecret              string        `env:"JWT_SECRET, required"`
	TokenTTL               time.Duration `env:"TOKEN_TTL,  default=1h"`
	BcryptCost             int           `env:"BCRYPT_COST, default=10"`
	DefaultResetPassword   string        `env:"DEFAULT_RESET_PASSWORD, required"`
	AllowAdminRegistration bool          `env:"ALLOW_ADMIN_REGISTRATION, default=false"`
	LoginMaxAttempts       int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginLockout           time.Duration `env:"LOGIN_LOCKOUT, default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

// RedisConfig is optional: an empty Addr disables login throttling.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return validate(&cfg)
}

// LoadWith reads configuration from values only, ignoring the environment.
func LoadWith(ctx context.Context, values map[string]string) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(values),
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return validate(&cfg)
}

func validate(cfg *Config) (*Config, error) {
	switch cfg.Store {
	case StoreMongo, StoreMemory:
	default:
		return nil, fmt.Errorf("config: STORE must be %q or %q, got %q", StoreMongo, StoreMemory, cfg.Store)
	}
	if cfg.Auth.LoginMaxAttempts <= 0 {
		return nil, fmt.Errorf("config: LOGIN_MAX_ATTEMPTS must be positive")
	}
	return cfg, nil
}
