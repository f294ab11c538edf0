// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types, and validates that required
// values exist so the rest of the application can trust them.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into the Config struct tree.
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide defaults for optional blocks (observability, rate limits).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process environment before koanf reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the PATTERNHUB_ prefix. The prefix is stripped and
	the rest is lowercased. Nesting uses "." so struct fields map like:

		PATTERNHUB_SERVER.PORT          -> server.port          -> Config.Server.Port
		PATTERNHUB_RATE_LIMIT.WAITLIST.LIMIT -> rate_limit.waitlist.limit
*/

// EnvPrefix is the prefix every config variable must carry.
const EnvPrefix = "PATTERNHUB_"

// ServiceName tags logs, traces and New Relic data for this service.
const ServiceName = "patternhub"

// Config is the root configuration object for the application.
//
// Observability and RateLimit are pointers because they are optional.
// Missing blocks get defaults injected by LoadConfig.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration" validate:"required"`
	RateLimit     *RateLimitConfig     `koanf:"rate_limit"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
// It is used to tag logs/traces and switch behavior ("local" enables SQL logs
// and skips automatic migrations).
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are stored as seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port". Redis backs both the job queue and rate-limit counters.
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores authentication-related secrets.
//
//   - SecretKey is the Clerk backend secret used to verify bearer tokens and
//     fetch user profiles.
//   - SessionSecret signs the first-party session cookie (HMAC-SHA256).
//   - SessionMaxAge is the cookie lifetime in seconds; it is the only expiry.
type AuthConfig struct {
	SecretKey     string `koanf:"secret_key" validate:"required"`
	SessionSecret string `koanf:"session_secret" validate:"required,min=32"`
	SessionMaxAge int    `koanf:"session_max_age"`
	SecureCookies bool   `koanf:"secure_cookies"`
}

// IntegrationConfig holds keys and addresses for outbound SaaS integrations.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key" validate:"required"`

	// EmailFrom is the sender identity, e.g. "PatternHub <hello@patternhub.dev>".
	EmailFrom string `koanf:"email_from"`

	// ConsultingNotifyEmail receives a copy of every consulting inquiry.
	ConsultingNotifyEmail string `koanf:"consulting_notify_email" validate:"omitempty,email"`
}

// DefaultSessionMaxAge is 30 days.
const DefaultSessionMaxAge = 30 * 24 * 60 * 60

// DefaultEmailFrom is used when IntegrationConfig.EmailFrom is empty.
const DefaultEmailFrom = "PatternHub <onboarding@resend.dev>"

// LoadConfig loads configuration from environment variables, unmarshals it into
// the Config tree, validates it, applies defaults, and returns the result.
//
// Unlike a fatal-on-error loader, every failure is returned so the caller
// (the CLI) decides how to exit.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load initial env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	mainConfig.applyDefaults()

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

// applyDefaults fills optional blocks and forces values that must stay
// consistent across logs and traces (service name, environment).
func (c *Config) applyDefaults() {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env

	if c.RateLimit == nil {
		c.RateLimit = DefaultRateLimitConfig()
	}
	c.RateLimit.fillDefaults()

	if c.Auth.SessionMaxAge <= 0 {
		c.Auth.SessionMaxAge = DefaultSessionMaxAge
	}
	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = DefaultEmailFrom
	}
}

// IsLocal reports whether the app runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == "local"
}
