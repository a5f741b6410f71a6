package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/handlers"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/middleware"
	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds API requests when RouterConfig.Timeout is unset.
const DefaultRequestTimeout = 10 * time.Second

// RouterConfig wires handlers and middleware into the engine.
type RouterConfig struct {
	Logger      *slog.Logger
	ServiceName string

	Health *handlers.HealthHandler
	Intake *handlers.IntakeHandler
	Admin  *handlers.AdminHandler

	// Authenticator guards the admin API. Admin routes are not mounted without it.
	Authenticator middleware.Authenticator

	// Throttler, if set, smooths bursts on the public submission endpoint.
	Throttler *middleware.Throttler

	CORSOrigins []string
	CORSMaxAge  time.Duration

	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Global middleware runs in this order:
//  1. Recovery
//  2. Request ID and correlation ID
//  3. OpenTelemetry tracing and metrics
//  4. Logging (skips /-/)
//  5. CORS
//
// Route groups:
//   - /-/ probes, build info and Prometheus metrics
//   - /api/v1/quote-requests public form, throttled
//   - /api/v1/admin staff API, bearer token with the admin role
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
		middleware.Logging(cfg.Logger),
		middleware.CORS(cfg.CORSOrigins, cfg.CORSMaxAge),
	)

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(engine)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	apiV1 := engine.Group("/api/v1", middleware.Timeout(timeout))

	if cfg.Intake != nil {
		public := apiV1.Group("")
		if cfg.Throttler != nil {
			public.Use(cfg.Throttler.Middleware())
		}

		cfg.Intake.RegisterRoutes(public)
	}

	if cfg.Admin != nil && cfg.Authenticator != nil {
		cfg.Admin.RegisterRoutes(apiV1,
			middleware.RequireAuth(cfg.Authenticator),
			middleware.RequireRole(domain.RoleAdmin),
		)
	}
}
