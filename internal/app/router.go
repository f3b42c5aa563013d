package app

import (
	"github.com/yungbote/neurobridge-coach/internal/http"
	httpMW "github.com/yungbote/neurobridge-coach/internal/http/middleware"
	"github.com/yungbote/neurobridge-coach/internal/observability"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	if cfg.StaffJWTSecret == "" {
		log.Warn("STAFF_JWT_SECRET not set; staff review routes are disabled")
	}
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, cfg.StaffJWTSecret),
	}
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:             log,
		ServiceName:     ServiceName,
		CORSOrigins:     cfg.CORSOrigins,
		Metrics:         metrics,
		AuthMiddleware:  middleware.Auth,
		CoachHandler:    handlers.Coach,
		ProfileHandler:  handlers.Profile,
		RewardHandler:   handlers.Reward,
		StaffHandler:    handlers.Staff,
		RealtimeHandler: handlers.Realtime,
		HealthHandler:   handlers.Health,
	})
}
