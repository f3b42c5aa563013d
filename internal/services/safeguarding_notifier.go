package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
	"github.com/yungbote/neurobridge-coach/internal/platform/sendgrid"
	"github.com/yungbote/neurobridge-coach/internal/platform/twilio"
	"github.com/yungbote/neurobridge-coach/internal/realtime"
	"github.com/yungbote/neurobridge-coach/internal/safeguarding"
)

// WebhookPoster delivers a JSON payload to an external case system.
type WebhookPoster interface {
	Post(ctx context.Context, payload any) error
}

// EventPublisher pushes realtime events to the staff dashboard.
type EventPublisher interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
}

type NotifierConfig struct {
	EmailTo        []string
	EmergencySMSTo []string
	Timeout        time.Duration
}

// safeguardingNotifier fans each alert out to every configured channel in parallel.
// Unconfigured channels are skipped. Message content goes only to the email and
// webhook channels, which reach the safeguarding team directly.
type safeguardingNotifier struct {
	log     *logger.Logger
	cfg     NotifierConfig
	email   sendgrid.Client
	sms     twilio.Client
	webhook WebhookPoster
	events  EventPublisher
}

func NewSafeguardingNotifier(
	baseLog *logger.Logger,
	cfg NotifierConfig,
	email sendgrid.Client,
	sms twilio.Client,
	webhook WebhookPoster,
	events EventPublisher,
) safeguarding.Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &safeguardingNotifier{
		log:     baseLog.With("service", "SafeguardingNotifier"),
		cfg:     cfg,
		email:   email,
		sms:     sms,
		webhook: webhook,
		events:  events,
	}
}

type channelSend struct {
	name string
	send func(ctx context.Context) error
}

func (n *safeguardingNotifier) NotifyEscalation(ctx context.Context, alert safeguarding.Alert) error {
	sends := []channelSend{}
	if n.email != nil && len(n.cfg.EmailTo) > 0 {
		sends = append(sends, channelSend{"email", func(ctx context.Context) error {
			return n.sendEmail(ctx, alert)
		}})
	}
	if n.webhook != nil {
		sends = append(sends, channelSend{"webhook", func(ctx context.Context) error {
			return n.webhook.Post(ctx, alertPayload("safeguarding_escalation", alert, true))
		}})
	}
	if n.events != nil {
		sends = append(sends, channelSend{"realtime", func(ctx context.Context) error {
			return n.events.Publish(ctx, realtime.SSEMessage{
				Channel: realtime.ChannelSafeguarding,
				Event:   realtime.SSEEventSafeguardingAlert,
				Data:    alertPayload("safeguarding_escalation", alert, false),
			})
		}})
	}
	return n.fanOut(ctx, "escalation", alert, sends)
}

func (n *safeguardingNotifier) NotifyEmergency(ctx context.Context, alert safeguarding.Alert) error {
	sends := []channelSend{}
	if n.sms != nil {
		for _, to := range n.cfg.EmergencySMSTo {
			to := to
			sends = append(sends, channelSend{"sms", func(ctx context.Context) error {
				_, err := n.sms.SendSMS(ctx, to, emergencySMSBody(alert))
				return err
			}})
		}
	}
	if n.webhook != nil {
		sends = append(sends, channelSend{"webhook", func(ctx context.Context) error {
			return n.webhook.Post(ctx, alertPayload("safeguarding_emergency", alert, true))
		}})
	}
	if n.events != nil {
		sends = append(sends, channelSend{"realtime", func(ctx context.Context) error {
			return n.events.Publish(ctx, realtime.SSEMessage{
				Channel: realtime.ChannelSafeguarding,
				Event:   realtime.SSEEventEmergencyAlert,
				Data:    alertPayload("safeguarding_emergency", alert, false),
			})
		}})
	}
	return n.fanOut(ctx, "emergency", alert, sends)
}

// fanOut runs every send to completion; one failing channel does not cancel the
// others. The first failure is returned.
func (n *safeguardingNotifier) fanOut(ctx context.Context, kind string, alert safeguarding.Alert, sends []channelSend) error {
	if len(sends) == 0 {
		n.log.Warn("no safeguarding channels configured", "kind", kind, "flag_id", alert.FlagID.String())
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	var g errgroup.Group
	for _, s := range sends {
		s := s
		g.Go(func() error {
			if err := s.send(ctx); err != nil {
				n.log.Warn("safeguarding channel failed",
					"kind", kind,
					"channel", s.name,
					"flag_id", alert.FlagID.String(),
					"error", err,
				)
				return fmt.Errorf("%s %s: %w", kind, s.name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (n *safeguardingNotifier) sendEmail(ctx context.Context, alert safeguarding.Alert) error {
	to := make([]sendgrid.EmailAddress, 0, len(n.cfg.EmailTo))
	for _, addr := range n.cfg.EmailTo {
		to = append(to, sendgrid.EmailAddress{Email: addr})
	}
	subject := fmt.Sprintf("[Safeguarding] severity %d %s concern", alert.Severity, alert.Category)
	if alert.Urgent {
		subject = "[URGENT] " + subject
	}
	_, err := n.email.Send(ctx, sendgrid.SendEmailRequest{
		To:         to,
		Subject:    subject,
		Text:       emailBody(alert),
		Categories: []string{"safeguarding", alert.Category},
		CustomArgs: map[string]string{"flag_id": alert.FlagID.String()},
	})
	return err
}

func emailBody(alert safeguarding.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Student: %s\n", alert.StudentID)
	fmt.Fprintf(&b, "Severity: %d\n", alert.Severity)
	fmt.Fprintf(&b, "Category: %s\n", alert.Category)
	fmt.Fprintf(&b, "Flag: %s\n", alert.FlagID)
	fmt.Fprintf(&b, "Detected: %s\n", alert.DetectedAt.Format(time.RFC3339))
	if alert.PersistFailed {
		b.WriteString("WARNING: this flag could not be saved. This email is the only record.\n")
	}
	fmt.Fprintf(&b, "\nStudent wrote:\n%s\n", alert.Content)
	fmt.Fprintf(&b, "\nCoach replied:\n%s\n", alert.Response)
	return b.String()
}

func emergencySMSBody(alert safeguarding.Alert) string {
	msg := fmt.Sprintf("EMERGENCY safeguarding alert: student %s, %s, severity %d. Flag %s. Check the staff dashboard now.",
		alert.StudentID, alert.Category, alert.Severity, alert.FlagID)
	if alert.PersistFailed {
		msg += " Flag NOT saved."
	}
	return msg
}

func alertPayload(event string, alert safeguarding.Alert, withContent bool) map[string]any {
	out := map[string]any{
		"event":          event,
		"flag_id":        alert.FlagID.String(),
		"student_id":     alert.StudentID,
		"severity":       alert.Severity,
		"category":       alert.Category,
		"urgent":         alert.Urgent,
		"persist_failed": alert.PersistFailed,
		"detected_at":    alert.DetectedAt.UTC().Format(time.RFC3339),
	}
	if withContent {
		out["content"] = alert.Content
		out["response"] = alert.Response
	}
	return out
}
