package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-coach/internal/agefilter"
	"github.com/yungbote/neurobridge-coach/internal/barriers"
	"github.com/yungbote/neurobridge-coach/internal/catalog"
	studentrepo "github.com/yungbote/neurobridge-coach/internal/data/repos/student"
	"github.com/yungbote/neurobridge-coach/internal/data/repos/testutil"
	"github.com/yungbote/neurobridge-coach/internal/personalization"
	"github.com/yungbote/neurobridge-coach/internal/realtime"
	"github.com/yungbote/neurobridge-coach/internal/rewards"
	"github.com/yungbote/neurobridge-coach/internal/safeguarding"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type fakeNotifier struct {
	mu          sync.Mutex
	escalations []safeguarding.Alert
	emergencies []safeguarding.Alert
}

func (f *fakeNotifier) NotifyEscalation(ctx context.Context, a safeguarding.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.escalations = append(f.escalations, a)
	return nil
}

func (f *fakeNotifier) NotifyEmergency(ctx context.Context, a safeguarding.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emergencies = append(f.emergencies, a)
	return nil
}

// fixedRand answers every draw with the same values.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) Intn(n int) int   { return r.n % n }

type memUsage struct {
	mu       sync.Mutex
	counts   map[string]int
	recorded []string
}

func (m *memUsage) RecentUsageCount(ctx context.Context, studentID, label string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[studentID+"/"+strings.ToLower(label)], nil
}

func (m *memUsage) RecordUsage(ctx context.Context, studentID, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[studentID+"/"+strings.ToLower(label)]++
	m.recorded = append(m.recorded, label)
	return nil
}

type fakeEvents struct {
	mu   sync.Mutex
	msgs []realtime.SSEMessage
}

func (f *fakeEvents) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return nil
}

type harness struct {
	db        *gorm.DB
	svc       CoachService
	notifier  *fakeNotifier
	usage     *memUsage
	issuer    *rewards.Issuer
	profiles  studentrepo.ProfileRepo
	flags     studentrepo.TraumaFlagRepo
	interests studentrepo.InterestRepo
	events    studentrepo.BarrierEventRepo
	grants    studentrepo.RewardGrantRepo
}

type harnessOpt func(*CoachDeps)

func newHarness(t *testing.T, rng personalization.Rand, opts ...harnessOpt) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	h := &harness{
		db:        db,
		notifier:  &fakeNotifier{},
		usage:     &memUsage{},
		issuer:    rewards.NewIssuer(rewards.WithClock(func() time.Time { return testNow })),
		profiles:  studentrepo.NewProfileRepo(db, log),
		flags:     studentrepo.NewTraumaFlagRepo(db, log),
		interests: studentrepo.NewInterestRepo(db, log),
		events:    studentrepo.NewBarrierEventRepo(db, log),
		grants:    studentrepo.NewRewardGrantRepo(db, log),
	}
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	adj, err := agefilter.NewDefault()
	if err != nil {
		t.Fatalf("agefilter: %v", err)
	}
	deps := CoachDeps{
		Scanner: safeguarding.NewScanner(),
		Escalator: safeguarding.NewEscalator(
			NewSafeguardingStore(h.flags, h.profiles),
			h.notifier,
			log,
			safeguarding.WithPersistRetry(1, 0),
			safeguarding.WithClock(func() time.Time { return testNow }),
		),
		Detector:  barriers.NewDetector(cat),
		Adjuster:  adj,
		Sampler:   personalization.NewSampler(h.usage, personalization.WithRand(rng)),
		Issuer:    h.issuer,
		Profiles:  h.profiles,
		Interests: h.interests,
		Events:    h.events,
		Grants:    h.grants,
		Usage:     h.usage,
		Now:       func() time.Time { return testNow },
	}
	for _, o := range opts {
		o(&deps)
	}
	svc, err := NewCoachService(log, deps)
	if err != nil {
		t.Fatalf("NewCoachService: %v", err)
	}
	h.svc = svc
	return h
}
