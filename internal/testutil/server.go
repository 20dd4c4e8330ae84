package testutil

import (
	"time"

	"github.com/deppfellow/gym-sessions/internal/config"
	"github.com/deppfellow/gym-sessions/internal/server"
	"github.com/rs/zerolog"
)

// TestJWTSecret is long enough for token.NewManager.
const TestJWTSecret = "test-secret-0123456789abcdef-0123456789"

// NewConfig returns a configuration usable without any external service.
func NewConfig() *config.Config {
	return &config.Config{
		Primary: config.Primary{Env: "test"},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        10,
			WriteTimeout:       10,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
			AuthRateLimit:      1000,
		},
		Auth: config.AuthConfig{
			JWTSecret: TestJWTSecret,
			TokenTTL:  time.Hour,
		},
		Observability: config.DefaultObservabilityConfig(),
	}
}

// NewServer returns a server container without database, Redis or job
// workers. Logs are discarded.
func NewServer(cfg *config.Config) *server.Server {
	if cfg == nil {
		cfg = NewConfig()
	}

	logger := zerolog.Nop()

	return &server.Server{
		Config: cfg,
		Logger: &logger,
	}
}
