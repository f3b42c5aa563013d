package observability

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	messages            *prometheus.CounterVec
	pipelineLatency     prometheus.Histogram
	detections          *prometheus.CounterVec
	flagPersistFailures prometheus.Counter
	alertFailures       *prometheus.CounterVec
	barriers            *prometheus.CounterVec
	interventions       *prometheus.CounterVec
	personalized        prometheus.Counter
	rewardsGranted      prometheus.Counter

	pgStats   *prometheus.GaugeVec
	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	v := strings.TrimSpace(os.Getenv("METRICS_ENABLED"))
	if v == "" {
		return false
	}
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}

func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics once. Returns nil when METRICS_ENABLED is off;
// every method is safe on a nil receiver.
func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = New(prometheus.NewRegistry())
		if log != nil {
			log.Info("prometheus metrics enabled")
		}
	})
	return instance
}

// New registers the coach collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return &Metrics{
		registry: reg,
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coach_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coach_api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route/status.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "route", "status"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Name: "coach_api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		messages: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coach_messages_processed_total",
			Help: "Student messages processed by outcome (coached, escalated, fallback).",
		}, []string{"outcome"}),
		pipelineLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "coach_pipeline_duration_seconds",
			Help:    "End-to-end message pipeline latency.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		detections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coach_safeguarding_detections_total",
			Help: "Safeguarding detections by category and severity.",
		}, []string{"category", "severity"}),
		flagPersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "coach_safeguarding_flag_persist_failures_total",
			Help: "Trauma flags that could not be stored after all retries.",
		}),
		alertFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coach_safeguarding_alert_failures_total",
			Help: "Failed safeguarding notifications by kind.",
		}, []string{"kind"}),
		barriers: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coach_barriers_detected_total",
			Help: "Top-ranked barriers by id.",
		}, []string{"barrier"}),
		interventions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "coach_interventions_selected_total",
			Help: "Selected intervention levers by id.",
		}, []string{"lever"}),
		personalized: f.NewCounter(prometheus.CounterOpts{
			Name: "coach_personalization_applied_total",
			Help: "Replies rewritten around a student interest.",
		}),
		rewardsGranted: f.NewCounter(prometheus.CounterOpts{
			Name: "coach_rewards_granted_total",
			Help: "Reward codes issued.",
		}),
		pgStats: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "coach_db_pool",
			Help: "database/sql pool statistics.",
		}, []string{"stat"}),
		redisUp: f.NewGauge(prometheus.GaugeOpts{
			Name: "coach_redis_up",
			Help: "1 when the last redis ping succeeded.",
		}),
		redisPing: f.NewGauge(prometheus.GaugeOpts{
			Name: "coach_redis_ping_seconds",
			Help: "Latency of the last redis ping.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveMessage(outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.messages.WithLabelValues(outcome).Inc()
	m.pipelineLatency.Observe(dur.Seconds())
}

func (m *Metrics) ObserveDetection(category string, severity int) {
	if m == nil {
		return
	}
	m.detections.WithLabelValues(category, strconv.Itoa(severity)).Inc()
}

func (m *Metrics) IncFlagPersistFailure() {
	if m == nil {
		return
	}
	m.flagPersistFailures.Inc()
}

func (m *Metrics) IncAlertFailure(kind string) {
	if m == nil {
		return
	}
	m.alertFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncBarrier(id string) {
	if m == nil {
		return
	}
	m.barriers.WithLabelValues(id).Inc()
}

func (m *Metrics) IncIntervention(id string) {
	if m == nil {
		return
	}
	if id == "" {
		id = "none"
	}
	m.interventions.WithLabelValues(id).Inc()
}

func (m *Metrics) IncPersonalization() {
	if m == nil {
		return
	}
	m.personalized.Inc()
}

func (m *Metrics) IncRewardGranted() {
	if m == nil {
		return
	}
	m.rewardsGranted.Inc()
}

func scrapeInterval() time.Duration {
	raw := strings.TrimSpace(os.Getenv("METRICS_SCRAPE_INTERVAL_SECONDS"))
	if raw == "" {
		return 15 * time.Second
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return 15 * time.Second
	}
	return time.Duration(secs) * time.Second
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.pgStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.pgStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.pgStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.pgStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.pgStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client) {
	if m == nil || rdb == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
