package app

import (
	httpH "github.com/yungbote/neurobridge-coach/internal/http/handlers"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
	"github.com/yungbote/neurobridge-coach/internal/realtime"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Coach    *httpH.CoachHandler
	Profile  *httpH.ProfileHandler
	Reward   *httpH.RewardHandler
	Staff    *httpH.StaffHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, cfg Config, clients Clients, services Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(ServiceName, Version, httpH.Features{
			Redis:           clients.Redis != nil,
			Email:           clients.Email != nil,
			SMS:             clients.SMS != nil,
			Webhook:         clients.Webhook != nil,
			NeglectDetector: cfg.NeglectDetector,
			StaffReview:     cfg.StaffJWTSecret != "",
		}),
		Coach:    httpH.NewCoachHandler(services.Coach),
		Profile:  httpH.NewProfileHandler(services.Profile),
		Reward:   httpH.NewRewardHandler(services.Reward),
		Staff:    httpH.NewStaffHandler(services.Review),
		Realtime: httpH.NewRealtimeHandler(log, hub),
	}
}
