package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// fallbackJWTSecret is accepted outside production so a fresh checkout boots
// without any environment.
const fallbackJWTSecret = "your-secret-key"

const minBcryptCost = 10

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Delivery DeliveryConfig
	Seed     SeedConfig
}

type AuthConfig struct {
	JWTSecret          string        `env:"JWT_SECRET,           default=your-secret-key"`
	JWTExpiresIn       time.Duration `env:"JWT_EXPIRES_IN,       default=24h"`
	BcryptCost         int           `env:"BCRYPT_COST,          default=10"`
	LoginMaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS,   default=5"`
	LoginLockoutWindow time.Duration `env:"LOGIN_LOCKOUT_WINDOW, default=15m"`
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=task_manager"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=100"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,        default=0"`
	PoolSize int    `env:"REDIS_POOL_SIZE, default=10"`
}

type DeliveryConfig struct {
	Workers int    `env:"DELIVERY_WORKERS, default=4"`
	BaseURL string `env:"INVITE_BASE_URL"`
}

type SeedConfig struct {
	AdminEmail    string `env:"ADMIN_EMAIL,    default=admin@example.com"`
	AdminPassword string `env:"ADMIN_PASSWORD, default=admin123"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service must not start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.IsProduction() && c.Auth.JWTSecret == fallbackJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.Auth.JWTExpiresIn <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	if c.Auth.BcryptCost < minBcryptCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be at least %d", minBcryptCost))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
