package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	studentrepo "github.com/yungbote/neurobridge-coach/internal/data/repos/student"
	types "github.com/yungbote/neurobridge-coach/internal/domain/student"
	"github.com/yungbote/neurobridge-coach/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-coach/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-coach/internal/platform/errs"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
	"github.com/yungbote/neurobridge-coach/internal/realtime"
)

// FlagView is the staff-facing shape of a trauma flag. Unlike the stored row it
// carries the message content, so it is only served behind staff auth.
type FlagView struct {
	ID            uuid.UUID  `json:"id"`
	StudentID     string     `json:"student_id"`
	Severity      int        `json:"severity"`
	Category      string     `json:"category"`
	Content       string     `json:"content"`
	AIResponse    string     `json:"ai_response"`
	HumanReviewed bool       `json:"human_reviewed"`
	ReviewedBy    string     `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	Outcome       string     `json:"outcome,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func newFlagView(f *types.TraumaFlag) FlagView {
	return FlagView{
		ID:            f.ID,
		StudentID:     f.StudentID,
		Severity:      f.Severity,
		Category:      f.Category,
		Content:       f.Content,
		AIResponse:    f.AIResponse,
		HumanReviewed: f.HumanReviewed,
		ReviewedBy:    f.ReviewedBy,
		ReviewedAt:    f.ReviewedAt,
		Outcome:       f.Outcome,
		CreatedAt:     f.CreatedAt,
	}
}

type ReviewRequest struct {
	FlagID      uuid.UUID
	Outcome     string
	ClearStatus bool
}

type ReviewService interface {
	ListPending(ctx context.Context, limit int) ([]FlagView, error)
	ListByStudent(ctx context.Context, studentID string) ([]FlagView, error)
	Review(ctx context.Context, req ReviewRequest) (*FlagView, error)
}

type reviewService struct {
	db       *gorm.DB
	log      *logger.Logger
	flags    studentrepo.TraumaFlagRepo
	profiles studentrepo.ProfileRepo
	events   EventPublisher
	now      func() time.Time
}

func NewReviewService(db *gorm.DB, baseLog *logger.Logger, flags studentrepo.TraumaFlagRepo, profiles studentrepo.ProfileRepo, events EventPublisher) ReviewService {
	return &reviewService{
		db:       db,
		log:      baseLog.With("service", "ReviewService"),
		flags:    flags,
		profiles: profiles,
		events:   events,
		now:      time.Now,
	}
}

func (s *reviewService) ListPending(ctx context.Context, limit int) ([]FlagView, error) {
	rows, err := s.flags.ListPending(dbctx.Context{Ctx: ctx}, limit)
	if err != nil {
		return nil, err
	}
	return flagViews(rows), nil
}

func (s *reviewService) ListByStudent(ctx context.Context, studentID string) ([]FlagView, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, fmt.Errorf("student_id required: %w", errs.ErrInvalidArgument)
	}
	rows, err := s.flags.ListByStudent(dbctx.Context{Ctx: ctx}, studentID)
	if err != nil {
		return nil, err
	}
	return flagViews(rows), nil
}

// Review records a staff decision on a flag. ClearStatus returns the student to
// "clear" and is refused while any other flag for that student is unreviewed.
func (s *reviewService) Review(ctx context.Context, req ReviewRequest) (*FlagView, error) {
	staff := ctxutil.GetStaffData(ctx)
	if staff == nil || staff.ReviewerID == "" {
		return nil, errs.ErrUnauthorized
	}
	outcome := strings.TrimSpace(req.Outcome)
	if req.FlagID == uuid.Nil || outcome == "" {
		return nil, fmt.Errorf("flag id and outcome required: %w", errs.ErrInvalidArgument)
	}

	var reviewed *types.TraumaFlag
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		flag, err := s.flags.GetByID(dbc, req.FlagID)
		if err != nil {
			return err
		}
		if flag.HumanReviewed {
			return fmt.Errorf("flag already reviewed: %w", errs.ErrInvalidArgument)
		}
		if req.ClearStatus {
			others, err := s.flags.ListByStudent(dbc, flag.StudentID)
			if err != nil {
				return err
			}
			for _, o := range others {
				if o.ID != flag.ID && !o.HumanReviewed {
					return fmt.Errorf("student has other unreviewed flags: %w", errs.ErrInvalidArgument)
				}
			}
		}
		at := s.now().UTC()
		if err := s.flags.MarkReviewed(dbc, flag.ID, staff.ReviewerID, outcome, at); err != nil {
			return err
		}
		if req.ClearStatus {
			if err := s.profiles.SetStatus(dbc, flag.StudentID, types.StatusClear); err != nil {
				return err
			}
		}
		flag.HumanReviewed = true
		flag.ReviewedBy = staff.ReviewerID
		flag.ReviewedAt = &at
		flag.Outcome = outcome
		reviewed = flag
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("trauma flag reviewed",
		"flag_id", reviewed.ID.String(),
		"reviewer_id", staff.ReviewerID,
		"student_id", reviewed.StudentID,
		"cleared", req.ClearStatus,
	)
	if s.events != nil {
		if err := s.events.Publish(ctx, realtime.SSEMessage{
			Channel: realtime.ChannelSafeguarding,
			Event:   realtime.SSEEventFlagReviewed,
			Data: map[string]any{
				"flag_id":    reviewed.ID.String(),
				"student_id": reviewed.StudentID,
				"outcome":    outcome,
				"cleared":    req.ClearStatus,
			},
		}); err != nil {
			s.log.Warn("flag reviewed event not published", "error", err)
		}
	}
	view := newFlagView(reviewed)
	return &view, nil
}

func flagViews(rows []*types.TraumaFlag) []FlagView {
	out := make([]FlagView, 0, len(rows))
	for _, r := range rows {
		out = append(out, newFlagView(r))
	}
	return out
}
