package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/99minutos/ops-dashboard/internal/core/domain"
	"github.com/99minutos/ops-dashboard/internal/core/store"
	"github.com/99minutos/ops-dashboard/internal/infrastructure/http/handlers"
	"github.com/99minutos/ops-dashboard/internal/infrastructure/http/middleware"
)

// RouterConfig describes the ops surface of a dashboard process.
type RouterConfig struct {
	Container *store.Container
	// Deps are the backends checked by /health/ready, keyed by name.
	Deps map[string]handlers.Pinger
	// Refresh reloads the collections. POST /refresh is only served when both
	// Refresh and JWTSecret are set.
	Refresh func(ctx context.Context) error
	// JWTSecret guards /state and /refresh with HS256 bearer tokens. Empty
	// leaves /state open.
	JWTSecret string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all ops routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = newHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			cfg.Log.Debug().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("ops request")
			return nil
		},
	}))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(cfg.Deps)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- State ---
	stateHandler := handlers.NewStateHandler(cfg.Container)
	if cfg.JWTSecret == "" {
		e.GET("/state", stateHandler.State)
		return e
	}

	auth := middleware.Auth(cfg.JWTSecret)
	e.GET("/state", stateHandler.State, auth)
	if cfg.Refresh != nil {
		e.POST("/refresh", func(c echo.Context) error {
			if err := cfg.Refresh(c.Request().Context()); err != nil {
				return err
			}
			return c.NoContent(http.StatusNoContent)
		}, auth, middleware.RequireRole(domain.IdentityAdmin))
	}
	return e
}
