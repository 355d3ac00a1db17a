package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store drivers.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// StoreDriver selects the user store: mongo or memory.
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Auth  AuthConfig
	Reset ResetConfig
	HTTP  HTTPConfig
	Mongo MongoConfig
	Redis RedisConfig
	SMTP  SMTPConfig
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET, required"`
	JWTIssuer     string        `env:"JWT_ISSUER,          default=accounts"`
	SessionTTL    time.Duration `env:"SESSION_TTL,         default=1h"`
	BcryptCost    int           `env:"BCRYPT_COST,         default=10"`
	RequireActive bool          `env:"AUTH_REQUIRE_ACTIVE, default=false"`
}

type ResetConfig struct {
	TokenTTL        time.Duration `env:"RESET_TOKEN_TTL,        default=1h"`
	FrontendURL     string        `env:"FRONTEND_URL,           default=http://localhost:3000"`
	RateLimit       int           `env:"RESET_RATE_LIMIT,       default=3"`
	RateWindow      time.Duration `env:"RESET_RATE_WINDOW,      default=15m"`
	CleanupInterval time.Duration `env:"RESET_CLEANUP_INTERVAL, default=15m"`
}

type HTTPConfig struct {
	CookieSecure bool     `env:"COOKIE_SECURE, default=false"`
	CookieDomain string   `env:"COOKIE_DOMAIN"`
	CORSOrigins  []string `env:"CORS_ORIGINS,  default=http://localhost:3000,http://127.0.0.1:3000,http://localhost:3001"`
	BodyLimit    string   `env:"BODY_LIMIT,    default=1M"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=projectlv"`
}

type RedisConfig struct {
	// Addr empty means no Redis; the forgot-password limiter falls back to memory.
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type SMTPConfig struct {
	// Host empty disables email; reset requests then fail with a delivery error.
	Host     string        `env:"SMTP_HOST"`
	Port     int           `env:"SMTP_PORT,     default=587"`
	Username string        `env:"SMTP_USERNAME"`
	Password string        `env:"SMTP_PASSWORD"`
	From     string        `env:"SMTP_FROM"`
	TLS      string        `env:"SMTP_TLS,      default=opportunistic"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT,  default=10s"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects combinations envconfig cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("config: STORE_DRIVER must be %q or %q, got %q", StoreMongo, StoreMemory, c.StoreDriver)
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("config: JWT_SECRET must be at least 32 characters")
	}
	if c.Auth.SessionTTL <= 0 || c.Reset.TokenTTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL and RESET_TOKEN_TTL must be positive")
	}
	if c.Reset.RateLimit < 1 || c.Reset.RateWindow <= 0 {
		return fmt.Errorf("config: RESET_RATE_LIMIT and RESET_RATE_WINDOW must be positive")
	}
	if c.Reset.CleanupInterval <= 0 {
		return fmt.Errorf("config: RESET_CLEANUP_INTERVAL must be positive")
	}
	switch c.SMTP.TLS {
	case "opportunistic", "mandatory", "none":
	default:
		return fmt.Errorf("config: SMTP_TLS must be opportunistic, mandatory or none")
	}
	return nil
}

// Parse reads configuration through the given lookuper and validates it.
func Parse(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := Parse(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}
