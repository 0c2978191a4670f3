package http

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-screen/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-screen/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-screen/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-screen/internal/platform/telemetry"
)

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// ServiceName names the otelgin server spans.
	ServiceName string

	// HealthHandler handles the /-/ endpoints.
	HealthHandler *handlers.HealthHandler

	// ScreenHandler handles the quote screen endpoints.
	ScreenHandler *handlers.ScreenHandler
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. OpenTelemetry - tracing and metrics
//  4. Logging - request logging (skips health endpoints)
//
// Route groups:
//   - /-/ (internal): probes, build info and metrics
//   - /api/v1/screen: the quote screen
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(middleware.Recovery(), middleware.RequestID())
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging())

	engine.NoRoute(func(c *gin.Context) {
		dto.AbortWithErrorCode(c, dto.ErrorCodeNotFound, "no such route")
	})

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	if cfg.ScreenHandler != nil {
		cfg.ScreenHandler.RegisterScreenRoutes(engine.Group("/api/v1"))
	}
}
