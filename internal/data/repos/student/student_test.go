package student

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-coach/internal/data/repos/testutil"
	types "github.com/yungbote/neurobridge-coach/internal/domain/student"
	"github.com/yungbote/neurobridge-coach/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-coach/internal/platform/errs"
)

func TestProfileRaiseStatusIsMonotonic(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	repo := NewProfileRepo(db, testutil.Logger(t))

	steps := []struct {
		to          types.SafeguardingStatus
		wantChanged bool
		wantStored  types.SafeguardingStatus
	}{
		{types.StatusMonitoring, true, types.StatusMonitoring},
		{types.StatusMonitoring, false, types.StatusMonitoring},
		{types.StatusEscalated, true, types.StatusEscalated},
		{types.StatusMonitoring, false, types.StatusEscalated},
		{types.StatusClear, false, types.StatusEscalated},
	}
	for i, s := range steps {
		changed, err := repo.RaiseStatus(dbc, "stu-1", s.to)
		if err != nil {
			t.Fatalf("step %d RaiseStatus: %v", i, err)
		}
		if changed != s.wantChanged {
			t.Fatalf("step %d changed=%v, want %v", i, changed, s.wantChanged)
		}
		p, err := repo.GetByStudentID(dbc, "stu-1")
		if err != nil || p == nil {
			t.Fatalf("step %d GetByStudentID: %v", i, err)
		}
		if p.SafeguardingStatus != s.wantStored {
			t.Fatalf("step %d status=%q, want %q", i, p.SafeguardingStatus, s.wantStored)
		}
	}

	if err := repo.SetStatus(dbc, "stu-1", types.StatusClear); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	p, _ := repo.GetByStudentID(dbc, "stu-1")
	if p.SafeguardingStatus != types.StatusClear {
		t.Fatalf("status after staff clear=%q", p.SafeguardingStatus)
	}
}

func TestProfileActiveSupportNotOverwritten(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	testutil.SeedProfile(t, ctx, db, "stu-2", types.StatusActiveSupport)
	repo := NewProfileRepo(db, testutil.Logger(t))

	changed, err := repo.RaiseStatus(dbctx.Context{Ctx: ctx}, "stu-2", types.StatusEscalated)
	if err != nil || changed {
		t.Fatalf("RaiseStatus over active_support: changed=%v err=%v", changed, err)
	}
}

func TestProfileRecordInteraction(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	repo := NewProfileRepo(db, testutil.Logger(t))
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	for i := 0; i < 2; i++ {
		if err := repo.RecordInteraction(dbc, InteractionUpdate{
			StudentID:      "stu-3",
			Age:            11,
			ActiveBarriers: []string{"lack_of_motivation"},
			RewardEarned:   true,
			At:             at,
		}); err != nil {
			t.Fatalf("RecordInteraction: %v", err)
		}
	}
	p, err := repo.GetByStudentID(dbc, "stu-3")
	if err != nil || p == nil {
		t.Fatalf("GetByStudentID: %v", err)
	}
	if p.RewardsEarned != 2 || p.Age != 11 || p.PlayBreakStage != types.DefaultPlayBreakStage {
		t.Fatalf("unexpected profile %+v", p)
	}
	if p.SafeguardingStatus != types.StatusClear {
		t.Fatalf("new profile status=%q, want clear", p.SafeguardingStatus)
	}
	var active []string
	if err := json.Unmarshal(p.ActiveBarriers, &active); err != nil || len(active) != 1 {
		t.Fatalf("active barriers=%s err=%v", p.ActiveBarriers, err)
	}
	if p.LastInteraction == nil || !p.LastInteraction.Equal(at) {
		t.Fatalf("last interaction=%v, want %v", p.LastInteraction, at)
	}
}

func TestTraumaFlagLifecycle(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	repo := NewTraumaFlagRepo(db, testutil.Logger(t))

	low := &types.TraumaFlag{StudentID: "stu-1", Severity: 2, Category: "sexual", Content: "c1", AIResponse: "r1"}
	high := &types.TraumaFlag{StudentID: "stu-1", Severity: 4, Category: "violence", Content: "c2", AIResponse: "r2"}
	for _, f := range []*types.TraumaFlag{low, high} {
		if err := repo.Create(dbc, f); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if err := repo.Create(dbc, &types.TraumaFlag{StudentID: "stu-1", Severity: 9}); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("Create(severity 9)=%v, want ErrInvalidArgument", err)
	}

	pending, err := repo.ListPending(dbc, 10)
	if err != nil || len(pending) != 2 {
		t.Fatalf("ListPending: err=%v len=%d", err, len(pending))
	}
	if pending[0].ID != high.ID {
		t.Fatalf("pending flags should be ordered by severity")
	}

	if err := repo.MarkReviewed(dbc, high.ID, "staff-1", "referred", time.Now()); err != nil {
		t.Fatalf("MarkReviewed: %v", err)
	}
	if err := repo.MarkReviewed(dbc, uuid.New(), "staff-1", "x", time.Now()); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("MarkReviewed(unknown)=%v, want ErrNotFound", err)
	}
	got, err := repo.GetByID(dbc, high.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.HumanReviewed || got.ReviewedBy != "staff-1" || got.Outcome != "referred" || got.ReviewedAt == nil {
		t.Fatalf("flag not reviewed: %+v", got)
	}
	if got.Content != "c2" {
		t.Fatalf("content not stored")
	}

	pending, _ = repo.ListPending(dbc, 10)
	if len(pending) != 1 || pending[0].ID != low.ID {
		t.Fatalf("pending after review=%v", pending)
	}
	all, _ := repo.ListByStudent(dbc, "stu-1")
	if len(all) != 2 {
		t.Fatalf("flags are append-only, got %d", len(all))
	}
}

func TestInterestUpsert(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewInterestRepo(db, testutil.Logger(t))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	testutil.SeedInterest(t, ctx, db, "stu-1", "games", "Minecraft", base)
	testutil.SeedInterest(t, ctx, db, "stu-1", "sports", "Football", base.Add(time.Hour))

	if err := repo.Upsert(dbc, &types.Interest{
		StudentID:     "stu-1",
		Category:      "games",
		Specific:      "Minecraft",
		Confidence:    0.9,
		LastMentioned: base.Add(2 * time.Hour),
		MentionCount:  2,
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	rows, err := repo.ListByStudent(dbc, "stu-1")
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByStudent: err=%v len=%d", err, len(rows))
	}
	if rows[0].Specific != "Minecraft" || rows[0].MentionCount != 2 || rows[0].Confidence != 0.9 {
		t.Fatalf("upserted interest=%+v", rows[0])
	}
}

func TestBarrierEventsAndRewardGrants(t *testing.T) {
	db := testutil.DB(t)
	dbc := dbctx.Context{Ctx: context.Background()}
	events := NewBarrierEventRepo(db, testutil.Logger(t))
	grants := NewRewardGrantRepo(db, testutil.Logger(t))

	if err := events.Create(dbc, []*types.BarrierEvent{
		{StudentID: "stu-1", BarrierID: "lack_of_motivation", Confidence: 0.8, Intervention: "micro_goal_celebration"},
	}); err != nil {
		t.Fatalf("Create events: %v", err)
	}
	got, err := events.ListByStudent(dbc, "stu-1", 10)
	if err != nil || len(got) != 1 || got[0].ID == uuid.Nil {
		t.Fatalf("ListByStudent: err=%v rows=%v", err, got)
	}

	if err := grants.Create(dbc, &types.RewardGrant{StudentID: "stu-1", Code: "GAME-1-ABC", IssuedAt: time.Now()}); err != nil {
		t.Fatalf("Create grant: %v", err)
	}
	g, err := grants.GetByCode(dbc, "game-1-abc")
	if err != nil || g.StudentID != "stu-1" {
		t.Fatalf("GetByCode: err=%v grant=%+v", err, g)
	}
	if _, err := grants.GetByCode(dbc, "GAME-2-XYZ"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("GetByCode(unknown)=%v, want ErrNotFound", err)
	}
	if n, _ := grants.CountByStudent(dbc, "stu-1"); n != 1 {
		t.Fatalf("CountByStudent=%d, want 1", n)
	}
}
