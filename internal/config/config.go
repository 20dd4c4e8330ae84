// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types, and validates that
// required values are present so they can be reused across the
// application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (observability, auth TTL).
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any value is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

/*
	Env vars are read with the GYM_ prefix. The prefix is trimmed, the key is
	lowercased, and "." is the nesting delimiter:

	  GYM_SERVER.PORT          -> server.port          -> Config.Server.Port
	  GYM_AUTH.JWT_SECRET      -> auth.jwt_secret      -> Config.Auth.JWTSecret
	  GYM_DOMAIN.STRICT_REFERENCES -> domain.strict_references
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "GYM_"

// ServiceName labels logs, traces and APM dashboards.
const ServiceName = "gym-sessions"

// DefaultTokenTTL is used when auth.token_ttl is not configured.
const DefaultTokenTTL = 24 * time.Hour

// DefaultAuthRateLimit is the per-client request rate allowed on the public
// auth endpoints when server.auth_rate_limit is not configured.
const DefaultAuthRateLimit = 10

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Domain        DomainConfig         `koanf:"domain"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
//
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// AuthRateLimit is the number of requests per second a single client may
	// send to /api/auth/*. Zero means DefaultAuthRateLimit.
	AuthRateLimit float64 `koanf:"auth_rate_limit" validate:"gte=0"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
//
// ConnMaxLifetime and ConnMaxIdleTime are whole seconds.
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
	SkipMigrations  bool   `koanf:"skip_migrations"`
}

// DSN builds a postgres URL from the connection parameters.
//
// The password is URL-escaped so characters like "@" or ":" do not break
// the URL structure.
func (d DatabaseConfig) DSN() string {
	// JoinHostPort adds brackets around IPv6 literals.
	hostPort := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		d.User,
		url.QueryEscape(d.Password),
		hostPort,
		d.Name,
		d.SSLMode,
	)
}

// RedisConfig contains Redis connection details.
// Address is "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores token signing settings and the optional admin account
// created at startup.
type AuthConfig struct {
	// JWTSecret is the HS256 signing key. Shorter keys are rejected.
	JWTSecret string `koanf:"jwt_secret" validate:"required,min=32"`

	// TokenTTL is how long an issued token stays valid ("24h", "90m").
	TokenTTL time.Duration `koanf:"token_ttl" validate:"gte=0"`

	// BootstrapAdminEmail and BootstrapAdminPassword, when both set, make
	// the service ensure an admin account exists on startup.
	BootstrapAdminEmail    string `koanf:"bootstrap_admin_email" validate:"omitempty,email"`
	BootstrapAdminPassword string `koanf:"bootstrap_admin_password" validate:"required_with=BootstrapAdminEmail"`
}

// IntegrationConfig holds credentials for third-party providers.
type IntegrationConfig struct {
	// ResendAPIKey authenticates the transactional email provider.
	ResendAPIKey string `koanf:"resend_api_key"`

	// EmailFrom is the sender identity, e.g. "Gym <no-reply@example.com>".
	EmailFrom string `koanf:"email_from"`
}

// DomainConfig toggles business rules that have more than one sensible
// behavior.
type DomainConfig struct {
	// StrictReferences rejects session payloads whose teacher_id or users
	// do not resolve, instead of silently dropping the unknown ids.
	StrictReferences bool `koanf:"strict_references"`
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, validates it, applies defaults, and returns the result.
//
// Any failure is logged fatally: a service without valid config must not
// start.
func LoadConfig() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load initial env variables")
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not unmarshal main config")
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("config validation failed")
	}

	mainConfig.applyDefaults()

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}

// applyDefaults fills optional values that were left empty.
//
// The observability service name and environment are forced so that
// telemetry is always labelled consistently with Primary.Env.
func (c *Config) applyDefaults() {
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env

	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = DefaultTokenTTL
	}

	if c.Server.AuthRateLimit == 0 {
		c.Server.AuthRateLimit = DefaultAuthRateLimit
	}

	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = "Gym Sessions <onboarding@resend.dev>"
	}
}
