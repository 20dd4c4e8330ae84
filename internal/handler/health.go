package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/gym-sessions/internal/middleware"
	"github.com/deppfellow/gym-sessions/internal/server"
	"github.com/labstack/echo/v4"
)

const defaultHealthTimeout = 5 * time.Second

// HealthHandler reports whether the service and its dependencies respond.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

type healthCheck struct {
	name     string
	required bool
	ping     func(ctx context.Context) error
}

// CheckHealth answers 200 when every required check passes and 503
// otherwise. Redis is reported but never makes the service unhealthy.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]interface{}{}
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	cfg := h.server.Config.Observability.HealthChecks
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHealthTimeout
	}

	isHealthy := true
	for _, check := range h.checks() {
		if !cfg.Enabled || !cfg.HasCheck(check.name) {
			continue
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		checkStart := time.Now()
		err := check.ping(ctx)
		elapsed := time.Since(checkStart)
		cancel()

		if err != nil {
			checks[check.name] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": elapsed.String(),
				"error":         err.Error(),
			}
			if check.required {
				isHealthy = false
			}

			logger.Error().Err(err).Dur("response_time", elapsed).Msgf("%s health check failed", check.name)
			h.recordFailure(check.name, elapsed, err)
			continue
		}

		checks[check.name] = map[string]interface{}{
			"status":        "healthy",
			"response_time": elapsed.String(),
		}
		logger.Debug().Dur("response_time", elapsed).Msgf("%s health check passed", check.name)
	}

	if !isHealthy {
		response["status"] = "unhealthy"
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) checks() []healthCheck {
	var checks []healthCheck

	if h.server.DB != nil && h.server.DB.Pool != nil {
		checks = append(checks, healthCheck{
			name:     "database",
			required: true,
			ping:     h.server.DB.Pool.Ping,
		})
	}

	if h.server.Redis != nil {
		checks = append(checks, healthCheck{
			name: "redis",
			ping: func(ctx context.Context) error {
				return h.server.Redis.Ping(ctx).Err()
			},
		})
	}

	return checks
}

func (h *HealthHandler) recordFailure(name string, elapsed time.Duration, err error) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}

	app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":       name,
		"operation":        "health_check",
		"error_type":       name + "_unhealthy",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}
