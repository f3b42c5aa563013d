package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/neurobridge-coach/internal/barriers"
	studentrepo "github.com/yungbote/neurobridge-coach/internal/data/repos/student"
	"github.com/yungbote/neurobridge-coach/internal/domain/coach"
	types "github.com/yungbote/neurobridge-coach/internal/domain/student"
	"github.com/yungbote/neurobridge-coach/internal/intervention"
	"github.com/yungbote/neurobridge-coach/internal/observability"
	"github.com/yungbote/neurobridge-coach/internal/personalization"
	"github.com/yungbote/neurobridge-coach/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-coach/internal/platform/errs"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
	"github.com/yungbote/neurobridge-coach/internal/rewards"
	"github.com/yungbote/neurobridge-coach/internal/safeguarding"
)

const (
	// GenericPrompt is sent when no intervention applies.
	GenericPrompt = "I'm here to help. What would you like to work on?"
	// FallbackApology is sent when the pipeline fails unexpectedly.
	FallbackApology = "Sorry, something went wrong. Please try again."
)

type CoachService interface {
	ProcessMessage(ctx context.Context, studentID, message string, sctx *coach.StudentContext) (*coach.Result, error)
}

// AgeAdjuster rewrites reply text for the student's reading level.
type AgeAdjuster interface {
	AdjustLanguage(text string, age int) string
}

// UsageRecorder remembers that an interest was worked into a reply.
type UsageRecorder interface {
	RecordUsage(ctx context.Context, studentID, label string) error
}

type CoachDeps struct {
	Scanner   *safeguarding.Scanner
	Escalator *safeguarding.Escalator
	Detector  *barriers.Detector
	Selector  *intervention.Selector
	Adjuster  AgeAdjuster
	Sampler   *personalization.Sampler
	Policy    rewards.Policy
	Issuer    *rewards.Issuer

	Profiles  studentrepo.ProfileRepo
	Interests studentrepo.InterestRepo
	Events    studentrepo.BarrierEventRepo
	Grants    studentrepo.RewardGrantRepo
	Usage     UsageRecorder

	Metrics *observability.Metrics
	Now     func() time.Time
}

type coachService struct {
	log   *logger.Logger
	deps  CoachDeps
	locks *studentLocks
	now   func() time.Time
}

func NewCoachService(baseLog *logger.Logger, deps CoachDeps) (CoachService, error) {
	switch {
	case deps.Scanner == nil:
		return nil, fmt.Errorf("coach service: scanner required")
	case deps.Escalator == nil:
		return nil, fmt.Errorf("coach service: escalator required")
	case deps.Detector == nil:
		return nil, fmt.Errorf("coach service: barrier detector required")
	case deps.Adjuster == nil:
		return nil, fmt.Errorf("coach service: age adjuster required")
	case deps.Sampler == nil:
		return nil, fmt.Errorf("coach service: personalization sampler required")
	case deps.Profiles == nil || deps.Interests == nil:
		return nil, fmt.Errorf("coach service: profile and interest repos required")
	}
	if deps.Selector == nil {
		deps.Selector = intervention.NewSelector()
	}
	if deps.Policy == nil {
		deps.Policy = rewards.LengthPolicy{}
	}
	if deps.Issuer == nil {
		deps.Issuer = rewards.NewIssuer()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &coachService{
		log:   baseLog.With("service", "CoachService"),
		deps:  deps,
		locks: newStudentLocks(),
		now:   now,
	}, nil
}

// ProcessMessage runs one student message through the triage pipeline. Only caller
// errors are returned; any later failure degrades to a safe reply.
func (s *coachService) ProcessMessage(ctx context.Context, studentID, message string, sctx *coach.StudentContext) (*coach.Result, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, fmt.Errorf("student_id required: %w", errs.ErrInvalidArgument)
	}
	if err := sctx.Validate(); err != nil {
		return nil, err
	}

	ctx, span := observability.Tracer().Start(ctx, "coach.ProcessMessage")
	defer span.End()

	unlock := s.locks.Lock(studentID)
	defer unlock()

	start := s.now()
	res, outcome := s.run(ctx, span, studentID, message, sctx)
	res.Timestamp = s.now().UTC()
	span.SetAttributes(
		attribute.String("coach.outcome", outcome),
		attribute.Bool("coach.safeguarding_alert", res.SafeguardingAlert),
		attribute.Bool("coach.reward_earned", res.RewardEarned),
	)
	s.deps.Metrics.ObserveMessage(outcome, s.now().Sub(start))
	return res, nil
}

func (s *coachService) run(ctx context.Context, span trace.Span, studentID, message string, sctx *coach.StudentContext) (res *coach.Result, outcome string) {
	log := s.log.With("student_id", studentID)
	alert := false
	defer func() {
		if r := recover(); r != nil {
			log.Error("coach pipeline panicked", "panic", fmt.Sprint(r))
			res = &coach.Result{
				Message:           FallbackApology,
				DetectedBarriers:  []coach.StudentBarrier{},
				SafeguardingAlert: alert,
				Reasoning:         []string{"Internal error - sent fallback reply"},
			}
			outcome = "fallback"
		}
	}()

	reasoning := []string{}

	scan := s.deps.Scanner.Scan(message, sctx.Age)
	span.SetAttributes(attribute.Int("safeguarding.severity", scan.Severity))
	if scan.Detected {
		alert = true
		out := s.deps.Escalator.HandleDetection(ctx, studentID, message, scan)
		if !out.FlagPersisted {
			reasoning = append(reasoning, "Safeguarding record could not be saved - team alerted directly")
		}
		if scan.Severity >= safeguarding.ShortCircuitSeverity {
			reasoning = append(reasoning, "Safeguarding concern detected - escalating to human team")
			return &coach.Result{
				Message:           out.Response,
				DetectedBarriers:  []coach.StudentBarrier{},
				SafeguardingAlert: true,
				Reasoning:         reasoning,
			}, "escalated"
		}
		reasoning = append(reasoning, fmt.Sprintf("Safeguarding concern recorded (severity %d) - monitoring", scan.Severity))
	}

	now := s.now().UTC()
	interests := s.trackInterests(ctx, log, studentID, message, now)

	ranked := s.deps.Detector.Detect(message, sctx)
	detected := make([]coach.StudentBarrier, 0, len(ranked))
	for _, d := range ranked {
		detected = append(detected, *d.Barrier)
	}
	if len(ranked) > 0 {
		reasoning = append(reasoning, "Detected barrier: "+ranked[0].Barrier.Name)
		s.deps.Metrics.IncBarrier(ranked[0].Barrier.ID)
	}

	lever := s.deps.Selector.Select(ranked, sctx)
	leverName := "none"
	if lever != nil {
		leverName = lever.Name
	}
	reasoning = append(reasoning, "Selected intervention: "+leverName)
	s.deps.Metrics.IncIntervention(leverName)

	text := intervention.OpeningLine(lever)
	if text == "" {
		text = GenericPrompt
	}
	text = s.deps.Adjuster.AdjustLanguage(text, sctx.Age)

	if s.deps.Sampler.ShouldPersonalize(interests) {
		rw, err := s.deps.Sampler.Rewrite(ctx, studentID, interests, sctx.TaskType)
		if err != nil {
			log.Warn("interest usage lookup failed", "error", err)
		}
		text = rw.Text
		if rw.Interest != "" {
			reasoning = append(reasoning, "Personalized with student interests")
			s.recordUsage(ctx, log, studentID, rw.Interest)
		} else {
			reasoning = append(reasoning, "Personalization fell back to a generic nudge")
		}
		s.deps.Metrics.IncPersonalization()
	} else {
		reasoning = append(reasoning, "Personalization not applied")
	}

	earned := s.deps.Policy.Earned(message)
	code := ""
	if earned {
		reasoning = append(reasoning, "Student earned play break reward")
		code = s.grantReward(ctx, log, studentID)
	} else {
		reasoning = append(reasoning, "No reward earned")
	}

	s.recordBarrierEvents(ctx, log, studentID, ranked, lever, now)
	active := make([]string, 0, len(detected))
	for _, b := range detected {
		active = append(active, b.ID)
	}
	if err := s.deps.Profiles.RecordInteraction(dbctx.Context{Ctx: ctx}, studentrepo.InteractionUpdate{
		StudentID:      studentID,
		Age:            sctx.Age,
		ActiveBarriers: active,
		RewardEarned:   earned,
		At:             now,
	}); err != nil {
		log.Warn("profile update failed", "error", err)
	}

	return &coach.Result{
		Message:           text,
		Intervention:      lever,
		DetectedBarriers:  detected,
		SafeguardingAlert: scan.Severity > 0,
		RewardEarned:      earned,
		Reasoning:         reasoning,
		RewardCode:        code,
	}, "coached"
}

// trackInterests upserts interests mentioned in message and returns the student's
// full interest list. Failures leave personalization without interests.
func (s *coachService) trackInterests(ctx context.Context, log *logger.Logger, studentID, message string, now time.Time) []types.Interest {
	dbc := dbctx.Context{Ctx: ctx}
	existing, err := s.deps.Interests.ListByStudent(dbc, studentID)
	if err != nil {
		log.Warn("interest lookup failed", "error", err)
		return nil
	}
	mentions := personalization.DetectInterests(message)
	if len(mentions) == 0 {
		return existing
	}
	byLabel := make(map[string]*types.Interest, len(existing))
	for i := range existing {
		byLabel[strings.ToLower(existing[i].Specific)] = &existing[i]
	}
	for _, m := range mentions {
		prev := byLabel[strings.ToLower(m.Specific)]
		next := personalization.Track(prev, studentID, m, now)
		if err := s.deps.Interests.Upsert(dbc, next); err != nil {
			log.Warn("interest upsert failed", "interest", m.Specific, "error", err)
			continue
		}
		if prev != nil {
			*prev = *next
		} else {
			existing = append(existing, *next)
			byLabel[strings.ToLower(m.Specific)] = &existing[len(existing)-1]
		}
	}
	return existing
}

func (s *coachService) recordUsage(ctx context.Context, log *logger.Logger, studentID, label string) {
	if s.deps.Usage == nil {
		return
	}
	if err := s.deps.Usage.RecordUsage(ctx, studentID, label); err != nil {
		log.Warn("interest usage record failed", "error", err)
	}
}

func (s *coachService) grantReward(ctx context.Context, log *logger.Logger, studentID string) string {
	code, issuedAt := s.deps.Issuer.Issue()
	s.deps.Metrics.IncRewardGranted()
	if s.deps.Grants == nil {
		return code
	}
	if err := s.deps.Grants.Create(dbctx.Context{Ctx: ctx}, &types.RewardGrant{
		StudentID: studentID,
		Code:      code,
		IssuedAt:  issuedAt,
	}); err != nil {
		log.Warn("reward grant not stored", "error", err)
	}
	return code
}

func (s *coachService) recordBarrierEvents(ctx context.Context, log *logger.Logger, studentID string, ranked []coach.DetectedBarrier, lever *coach.InterventionLever, now time.Time) {
	if s.deps.Events == nil || len(ranked) == 0 {
		return
	}
	rows := make([]*types.BarrierEvent, 0, len(ranked))
	for i, d := range ranked {
		row := &types.BarrierEvent{
			StudentID:  studentID,
			BarrierID:  d.Barrier.ID,
			Confidence: d.Confidence,
			CreatedAt:  now,
		}
		if i == 0 && lever != nil {
			row.Intervention = lever.Name
		}
		rows = append(rows, row)
	}
	if err := s.deps.Events.Create(dbctx.Context{Ctx: ctx}, rows); err != nil {
		log.Warn("barrier events not stored", "error", err)
	}
}
