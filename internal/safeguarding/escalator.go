package safeguarding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/neurobridge-coach/internal/domain/student"
	"github.com/yungbote/neurobridge-coach/internal/platform/errs"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

const (
	ResponseUrgent     = "I'm very concerned about what you've shared. Your safety is the most important thing right now. I'm connecting you with someone who can help immediately. Please stay with me."
	ResponseSpecialist = "Thanks for sharing that with me. I think it would be really helpful for you to talk with someone who specializes in these situations. I'm going to connect you with a support person who can help."
	ResponseSupport    = "I hear you. Let's take a break from the work for now. I'm going to make sure you get some support."
)

// ShortCircuitSeverity is the lowest severity that ends message processing.
const ShortCircuitSeverity = 3

// ResponseFor returns the canonical student-facing reply for a severity tier.
func ResponseFor(severity int) string {
	switch {
	case severity >= 4:
		return ResponseUrgent
	case severity == 3:
		return ResponseSpecialist
	default:
		return ResponseSupport
	}
}

// Store persists safeguarding state. RaiseStatus must never lower the current tier
// and reports whether the stored status changed.
type Store interface {
	AppendFlag(ctx context.Context, flag *student.TraumaFlag) error
	RaiseStatus(ctx context.Context, studentID string, to student.SafeguardingStatus) (bool, error)
}

// Alert is what the safeguarding team receives. Content is the raw disclosure.
type Alert struct {
	FlagID        uuid.UUID `json:"flag_id"`
	StudentID     string    `json:"student_id"`
	Severity      int       `json:"severity"`
	Category      string    `json:"category"`
	Content       string    `json:"content"`
	Response      string    `json:"response"`
	Urgent        bool      `json:"urgent"`
	PersistFailed bool      `json:"persist_failed"`
	DetectedAt    time.Time `json:"detected_at"`
}

type Notifier interface {
	NotifyEscalation(ctx context.Context, alert Alert) error
	NotifyEmergency(ctx context.Context, alert Alert) error
}

type Metrics interface {
	ObserveDetection(category string, severity int)
	IncFlagPersistFailure()
	IncAlertFailure(kind string)
}

// Outcome reports what the escalation managed to do. Failures are carried here
// rather than returned so that the student always gets a reply.
type Outcome struct {
	Response      string
	Flag          *student.TraumaFlag
	FlagPersisted bool
	PersistErr    error
	Status        student.SafeguardingStatus
	StatusUpdated bool
	StatusErr     error
	NotifyErr     error
	EmergencyErr  error
}

type Escalator struct {
	store    Store
	notifier Notifier
	metrics  Metrics
	log      *logger.Logger

	persistAttempts int
	persistBackoff  time.Duration
	now             func() time.Time
}

type EscalatorOption func(*Escalator)

// WithPersistRetry bounds flag persistence to attempts tries, doubling backoff between them.
func WithPersistRetry(attempts int, backoff time.Duration) EscalatorOption {
	return func(e *Escalator) {
		if attempts > 0 {
			e.persistAttempts = attempts
		}
		if backoff >= 0 {
			e.persistBackoff = backoff
		}
	}
}

func WithMetrics(m Metrics) EscalatorOption {
	return func(e *Escalator) { e.metrics = m }
}

func WithClock(now func() time.Time) EscalatorOption {
	return func(e *Escalator) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEscalator(store Store, notifier Notifier, baseLog *logger.Logger, opts ...EscalatorOption) *Escalator {
	e := &Escalator{
		store:           store,
		notifier:        notifier,
		log:             baseLog.With("service", "Escalator"),
		persistAttempts: 3,
		persistBackoff:  200 * time.Millisecond,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// HandleDetection records a detection and alerts humans, in order: flag, status,
// then the escalation notice, concurrently with the emergency notice for
// severity 4. Writes are detached from ctx cancellation; an abandoned request
// still leaves a record.
func (e *Escalator) HandleDetection(ctx context.Context, studentID, message string, res Result) Outcome {
	ctx = context.WithoutCancel(ctx)
	log := e.log.With("student_id", studentID, "severity", res.Severity, "category", res.Category)

	out := Outcome{
		Response: ResponseFor(res.Severity),
		Status:   student.StatusForSeverity(res.Severity),
	}
	if e.metrics != nil {
		e.metrics.ObserveDetection(res.Category, res.Severity)
	}

	now := e.now().UTC()
	flag := &student.TraumaFlag{
		ID:         uuid.New(),
		StudentID:  studentID,
		Severity:   res.Severity,
		Category:   res.Category,
		Content:    message,
		AIResponse: out.Response,
		CreatedAt:  now,
	}
	out.Flag = flag

	if err := e.persistFlag(ctx, flag); err != nil {
		out.PersistErr = fmt.Errorf("%w: %v", errs.ErrFlagNotPersisted, err)
		log.Error("trauma flag not persisted", "flag_id", flag.ID.String(), "attempts", e.persistAttempts, "error", err)
		if e.metrics != nil {
			e.metrics.IncFlagPersistFailure()
		}
	} else {
		out.FlagPersisted = true
	}

	changed, err := e.store.RaiseStatus(ctx, studentID, out.Status)
	if err != nil {
		out.StatusErr = err
		log.Error("safeguarding status not updated", "status", string(out.Status), "error", err)
	}
	out.StatusUpdated = changed

	alert := Alert{
		FlagID:        flag.ID,
		StudentID:     studentID,
		Severity:      res.Severity,
		Category:      res.Category,
		Content:       message,
		Response:      out.Response,
		Urgent:        res.Severity >= ShortCircuitSeverity,
		PersistFailed: !out.FlagPersisted,
		DetectedAt:    now,
	}
	if e.notifier == nil {
		return out
	}
	// Severity 4 fans out the emergency alongside the escalation so a slow
	// escalation channel cannot hold back the emergency texts.
	var g errgroup.Group
	g.Go(func() error {
		if err := e.notifier.NotifyEscalation(ctx, alert); err != nil {
			out.NotifyErr = err
			log.Warn("escalation notification failed", "error", err)
			if e.metrics != nil {
				e.metrics.IncAlertFailure("escalation")
			}
		}
		return nil
	})
	if res.Severity == 4 {
		g.Go(func() error {
			if err := e.notifier.NotifyEmergency(ctx, alert); err != nil {
				out.EmergencyErr = err
				log.Error("emergency alert failed", "error", err)
				if e.metrics != nil {
					e.metrics.IncAlertFailure("emergency")
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (e *Escalator) persistFlag(ctx context.Context, flag *student.TraumaFlag) error {
	var lastErr error
	backoff := e.persistBackoff
	for attempt := 1; attempt <= e.persistAttempts; attempt++ {
		err := e.store.AppendFlag(ctx, flag)
		if err == nil {
			return nil
		}
		lastErr = err
		if errors.Is(err, errs.ErrInvalidArgument) || attempt == e.persistAttempts {
			break
		}
		e.log.Warn("trauma flag write failed, retrying", "flag_id", flag.ID.String(), "attempt", attempt, "error", err)
		if backoff > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return lastErr
}
