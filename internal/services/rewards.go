package services

import (
	"context"
	"errors"
	"strings"

	studentrepo "github.com/yungbote/neurobridge-coach/internal/data/repos/student"
	"github.com/yungbote/neurobridge-coach/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-coach/internal/platform/errs"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
	"github.com/yungbote/neurobridge-coach/internal/rewards"
)

// RewardCheck is the outcome of validating a reward code. Valid depends only on
// the code itself; StudentID is filled when the grant ledger knows the code.
type RewardCheck struct {
	Valid     bool   `json:"valid"`
	StudentID string `json:"student_id,omitempty"`
}

type RewardService interface {
	Validate(ctx context.Context, code string) (*RewardCheck, error)
}

type rewardService struct {
	log    *logger.Logger
	issuer *rewards.Issuer
	grants studentrepo.RewardGrantRepo
}

func NewRewardService(baseLog *logger.Logger, issuer *rewards.Issuer, grants studentrepo.RewardGrantRepo) RewardService {
	if issuer == nil {
		issuer = rewards.NewIssuer()
	}
	return &rewardService{
		log:    baseLog.With("service", "RewardService"),
		issuer: issuer,
		grants: grants,
	}
}

func (s *rewardService) Validate(ctx context.Context, code string) (*RewardCheck, error) {
	code = strings.TrimSpace(code)
	out := &RewardCheck{Valid: s.issuer.Validate(code)}
	if !out.Valid || s.grants == nil {
		return out, nil
	}
	g, err := s.grants.GetByCode(dbctx.Context{Ctx: ctx}, code)
	switch {
	case err == nil:
		out.StudentID = g.StudentID
	case errors.Is(err, errs.ErrNotFound):
	default:
		s.log.Warn("reward grant lookup failed", "error", err)
	}
	return out, nil
}
