package app

import (
	"strings"
	"time"

	"github.com/yungbote/neurobridge-coach/internal/data/db"
	"github.com/yungbote/neurobridge-coach/internal/personalization"
	"github.com/yungbote/neurobridge-coach/internal/platform/envutil"
	"github.com/yungbote/neurobridge-coach/internal/platform/sendgrid"
	"github.com/yungbote/neurobridge-coach/internal/platform/twilio"
)

const ServiceName = "neurobridge-coach"

// Version is stamped at build time with -ldflags "-X .../internal/app.Version=...".
var Version = "dev"

type Config struct {
	Port        string
	LogMode     string
	Environment string
	CORSOrigins []string

	DB db.Config

	RedisAddr           string
	RedisChannel        string
	InterestUsageWindow time.Duration

	PersonalizationRate       float64
	PersonalizationUsageLimit int
	BarrierCatalogPath        string
	NeglectDetector           bool

	StaffJWTSecret string

	FlagPersistAttempts int
	FlagPersistBackoff  time.Duration

	SafeguardingEmailTo []string
	EmergencySMSTo      []string
	WebhookURL          string
	WebhookSecret       string
	NotifyTimeout       time.Duration
	SendGrid            sendgrid.Config
	Twilio              twilio.Config
}

func LoadConfig() Config {
	return Config{
		Port:        envutil.String("PORT", "8080"),
		LogMode:     envutil.String("LOG_MODE", "development"),
		Environment: envutil.String("ENVIRONMENT", "development"),
		CORSOrigins: envutil.List("CORS_ORIGINS"),

		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", db.DriverPostgres),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "neurobridge_coach"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       envutil.String("SQLITE_PATH", ""),
		},

		RedisAddr:           envutil.String("REDIS_ADDR", ""),
		RedisChannel:        envutil.String("REDIS_CHANNEL", "coach:safeguarding"),
		InterestUsageWindow: envutil.Duration("INTEREST_USAGE_WINDOW", 24*time.Hour),

		PersonalizationRate:       envutil.Float("PERSONALIZATION_RATE", personalization.DefaultRate),
		PersonalizationUsageLimit: envutil.Int("PERSONALIZATION_USAGE_LIMIT", personalization.DefaultUsageLimit),
		BarrierCatalogPath:        envutil.String("BARRIER_CATALOG_PATH", ""),
		NeglectDetector:           envutil.Bool("SAFEGUARDING_NEGLECT_ENABLED", false),

		StaffJWTSecret: envutil.String("STAFF_JWT_SECRET", ""),

		FlagPersistAttempts: envutil.Int("FLAG_PERSIST_ATTEMPTS", 3),
		FlagPersistBackoff:  envutil.Duration("FLAG_PERSIST_BACKOFF", 200*time.Millisecond),

		SafeguardingEmailTo: envutil.List("SAFEGUARDING_EMAIL_TO"),
		EmergencySMSTo:      envutil.List("EMERGENCY_SMS_TO"),
		WebhookURL:          envutil.String("SAFEGUARDING_WEBHOOK_URL", ""),
		WebhookSecret:       envutil.String("SAFEGUARDING_WEBHOOK_SECRET", ""),
		NotifyTimeout:       envutil.Duration("SAFEGUARDING_NOTIFY_TIMEOUT", 10*time.Second),
		SendGrid:            sendgrid.ConfigFromEnv(),
		Twilio:              twilio.ConfigFromEnv(),
	}
}

func (c Config) Addr() string {
	p := strings.TrimSpace(c.Port)
	if strings.Contains(p, ":") {
		return p
	}
	return ":" + p
}
