package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-coach/internal/agefilter"
	"github.com/yungbote/neurobridge-coach/internal/barriers"
	"github.com/yungbote/neurobridge-coach/internal/catalog"
	redisclient "github.com/yungbote/neurobridge-coach/internal/clients/redis"
	"github.com/yungbote/neurobridge-coach/internal/intervention"
	"github.com/yungbote/neurobridge-coach/internal/observability"
	"github.com/yungbote/neurobridge-coach/internal/personalization"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
	"github.com/yungbote/neurobridge-coach/internal/realtime"
	"github.com/yungbote/neurobridge-coach/internal/realtime/bus"
	"github.com/yungbote/neurobridge-coach/internal/rewards"
	"github.com/yungbote/neurobridge-coach/internal/safeguarding"
	"github.com/yungbote/neurobridge-coach/internal/services"
)

type Services struct {
	Bus     bus.Bus
	Catalog *catalog.Catalog

	Coach   services.CoachService
	Profile services.ProfileService
	Review  services.ReviewService
	Reward  services.RewardService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients, hub *realtime.SSEHub, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	cat, err := catalog.Load(cfg.BarrierCatalogPath)
	if err != nil {
		return Services{}, fmt.Errorf("load barrier catalog: %w", err)
	}
	adjuster, err := agefilter.NewDefault()
	if err != nil {
		return Services{}, fmt.Errorf("load age groups: %w", err)
	}

	// Realtime bus
	var eventBus bus.Bus
	if clients.Redis != nil {
		eventBus, err = bus.NewRedisBus(log, clients.Redis, cfg.RedisChannel)
		if err != nil {
			return Services{}, fmt.Errorf("init redis bus: %w", err)
		}
	} else {
		eventBus = bus.NewLocalBus(hub)
	}

	// Interest usage throttle
	var (
		usageCounter  personalization.UsageCounter
		usageRecorder services.UsageRecorder
	)
	if clients.Redis != nil {
		store := redisclient.NewUsageStore(clients.Redis, log, cfg.InterestUsageWindow)
		usageCounter, usageRecorder = store, store
	}

	// Safeguarding
	var hook services.WebhookPoster
	if clients.Webhook != nil {
		hook = clients.Webhook
	}
	notifier := services.NewSafeguardingNotifier(log, services.NotifierConfig{
		EmailTo:        cfg.SafeguardingEmailTo,
		EmergencySMSTo: cfg.EmergencySMSTo,
		Timeout:        cfg.NotifyTimeout,
	}, clients.Email, clients.SMS, hook, eventBus)

	scannerOpts := []safeguarding.Option{}
	if cfg.NeglectDetector {
		scannerOpts = append(scannerOpts, safeguarding.WithNeglectDetector())
	}
	escalatorOpts := []safeguarding.EscalatorOption{
		safeguarding.WithPersistRetry(cfg.FlagPersistAttempts, cfg.FlagPersistBackoff),
	}
	if metrics != nil {
		escalatorOpts = append(escalatorOpts, safeguarding.WithMetrics(metrics))
	}
	escalator := safeguarding.NewEscalator(
		services.NewSafeguardingStore(repos.TraumaFlag, repos.Profile),
		notifier,
		log,
		escalatorOpts...,
	)

	issuer := rewards.NewIssuer()
	coach, err := services.NewCoachService(log, services.CoachDeps{
		Scanner:   safeguarding.NewScanner(scannerOpts...),
		Escalator: escalator,
		Detector:  barriers.NewDetector(cat),
		Selector:  intervention.NewSelector(),
		Adjuster:  adjuster,
		Sampler: personalization.NewSampler(usageCounter,
			personalization.WithRate(cfg.PersonalizationRate),
			personalization.WithUsageLimit(cfg.PersonalizationUsageLimit),
		),
		Policy:    rewards.LengthPolicy{},
		Issuer:    issuer,
		Profiles:  repos.Profile,
		Interests: repos.Interest,
		Events:    repos.BarrierEvent,
		Grants:    repos.RewardGrant,
		Usage:     usageRecorder,
		Metrics:   metrics,
	})
	if err != nil {
		return Services{}, err
	}

	return Services{
		Bus:     eventBus,
		Catalog: cat,
		Coach:   coach,
		Profile: services.NewProfileService(log, repos.Profile, repos.Interest),
		Review:  services.NewReviewService(db, log, repos.TraumaFlag, repos.Profile, eventBus),
		Reward:  services.NewRewardService(log, issuer, repos.RewardGrant),
	}, nil
}
