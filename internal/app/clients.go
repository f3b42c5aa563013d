package app

import (
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
	"github.com/yungbote/neurobridge-coach/internal/platform/sendgrid"
	"github.com/yungbote/neurobridge-coach/internal/platform/twilio"
	"github.com/yungbote/neurobridge-coach/internal/platform/webhook"
	"github.com/yungbote/neurobridge-coach/internal/realtime/bus"
)

// Clients holds the optional outbound integrations. A nil field means the
// integration is not configured.
type Clients struct {
	Redis   *goredis.Client
	Email   sendgrid.Client
	SMS     twilio.Client
	Webhook *webhook.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		rdb, err := bus.Dial(cfg.RedisAddr)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
	} else {
		log.Warn("REDIS_ADDR not set; interest usage throttle and cross-instance alerts disabled")
	}

	// SendGrid
	if cfg.SendGrid.APIKey != "" && len(cfg.SafeguardingEmailTo) > 0 {
		email, err := sendgrid.New(log, cfg.SendGrid)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init sendgrid: %w", err)
		}
		out.Email = email
	}

	// Twilio
	if cfg.Twilio.AccountSID != "" && len(cfg.EmergencySMSTo) > 0 {
		sms, err := twilio.New(log, cfg.Twilio)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init twilio: %w", err)
		}
		out.SMS = sms
	}

	// Webhook
	if strings.TrimSpace(cfg.WebhookURL) != "" {
		hook, err := webhook.New(log, webhook.Config{
			URL:        cfg.WebhookURL,
			Secret:     cfg.WebhookSecret,
			MaxRetries: 2,
		})
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init webhook: %w", err)
		}
		out.Webhook = hook
	}

	if out.Email == nil && out.SMS == nil && out.Webhook == nil {
		log.Warn("no external safeguarding channel configured; alerts reach the staff dashboard only")
	}
	return out, nil
}

func (c *Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
