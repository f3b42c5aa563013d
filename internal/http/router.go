package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/neurobridge-coach/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-coach/internal/http/middleware"
	"github.com/yungbote/neurobridge-coach/internal/observability"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	CoachHandler    *httpH.CoachHandler
	ProfileHandler  *httpH.ProfileHandler
	RewardHandler   *httpH.RewardHandler
	StaffHandler    *httpH.StaffHandler
	RealtimeHandler *httpH.RealtimeHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("/health", cfg.HealthHandler.Status)
		}

		// Student surface
		if cfg.CoachHandler != nil {
			api.POST("/coach/message", cfg.CoachHandler.SendMessage)
		}
		if cfg.ProfileHandler != nil {
			api.GET("/students/:id/profile", cfg.ProfileHandler.GetProfile)
		}
		if cfg.RewardHandler != nil {
			api.POST("/rewards/validate", cfg.RewardHandler.Validate)
		}
	}

	staff := api.Group("/staff")
	{
		if cfg.AuthMiddleware != nil {
			staff.Use(cfg.AuthMiddleware.RequireStaff())
		}

		// Review workflow
		if cfg.StaffHandler != nil && cfg.AuthMiddleware != nil {
			staff.GET("/flags", cfg.StaffHandler.ListFlags)
			staff.POST("/flags/:id/review", cfg.StaffHandler.ReviewFlag)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil && cfg.AuthMiddleware != nil {
			staff.GET("/stream", cfg.RealtimeHandler.SSEStream)
		}
	}

	return r
}
