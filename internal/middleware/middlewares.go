package middleware

import (
	"github.com/deppfellow/gym-sessions/internal/server"
)

// Middlewares groups every middleware component so the router receives one
// value instead of many.
type Middlewares struct {
	// Global holds CORS, request logging, recovery, secure headers and the
	// global error handler.
	Global *GlobalMiddlewares

	// Auth authenticates bearer tokens and enforces the route policy.
	Auth *AuthMiddleware

	// ContextEnhancer attaches a request-scoped logger.
	ContextEnhancer *ContextEnhancer

	// Tracing installs New Relic transactions and custom attributes.
	Tracing *TracingMiddleware

	// RateLimit throttles the public auth endpoints.
	RateLimit *RateLimitMiddleware
}

// NewMiddlewares constructs all middleware components. tokens validates
// bearer tokens and reloads principals for the Auth middleware.
func NewMiddlewares(s *server.Server, tokens Authenticator) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		Auth:            NewAuthMiddleware(s, tokens),
		ContextEnhancer: NewContextEnhancer(s),
		Tracing:         NewTracingMiddleware(s, s.LoggerService.GetApplication()),
		RateLimit:       NewRateLimitMiddleware(s),
	}
}
