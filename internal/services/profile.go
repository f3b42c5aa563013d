package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	studentrepo "github.com/yungbote/neurobridge-coach/internal/data/repos/student"
	types "github.com/yungbote/neurobridge-coach/internal/domain/student"
	"github.com/yungbote/neurobridge-coach/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-coach/internal/platform/errs"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

type ProfileView struct {
	StudentID          string                   `json:"student_id"`
	Age                int                      `json:"age"`
	SafeguardingStatus types.SafeguardingStatus `json:"safeguarding_status"`
	RewardsEarned      int                      `json:"rewards_earned"`
	PlayBreakStage     string                   `json:"play_break_stage"`
	ActiveBarriers     []string                 `json:"active_barriers"`
	Interests          []types.Interest         `json:"interests"`
	LastInteraction    *time.Time               `json:"last_interaction,omitempty"`
}

type ProfileService interface {
	GetProfile(ctx context.Context, studentID string) (*ProfileView, error)
}

type profileService struct {
	log       *logger.Logger
	profiles  studentrepo.ProfileRepo
	interests studentrepo.InterestRepo
}

func NewProfileService(baseLog *logger.Logger, profiles studentrepo.ProfileRepo, interests studentrepo.InterestRepo) ProfileService {
	return &profileService{
		log:       baseLog.With("service", "ProfileService"),
		profiles:  profiles,
		interests: interests,
	}
}

func (s *profileService) GetProfile(ctx context.Context, studentID string) (*ProfileView, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, fmt.Errorf("student_id required: %w", errs.ErrInvalidArgument)
	}
	dbc := dbctx.Context{Ctx: ctx}
	p, err := s.profiles.GetByStudentID(dbc, studentID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("student %q: %w", studentID, errs.ErrNotFound)
	}
	interests, err := s.interests.ListByStudent(dbc, studentID)
	if err != nil {
		return nil, err
	}
	if interests == nil {
		interests = []types.Interest{}
	}
	active := []string{}
	if len(p.ActiveBarriers) > 0 {
		if err := json.Unmarshal(p.ActiveBarriers, &active); err != nil {
			s.log.Warn("bad active_barriers column", "student_id", studentID, "error", err)
			active = []string{}
		}
	}
	return &ProfileView{
		StudentID:          p.StudentID,
		Age:                p.Age,
		SafeguardingStatus: p.SafeguardingStatus,
		RewardsEarned:      p.RewardsEarned,
		PlayBreakStage:     p.PlayBreakStage,
		ActiveBarriers:     active,
		Interests:          interests,
		LastInteraction:    p.LastInteraction,
	}, nil
}
