package services

import (
	"context"

	studentrepo "github.com/yungbote/neurobridge-coach/internal/data/repos/student"
	types "github.com/yungbote/neurobridge-coach/internal/domain/student"
	"github.com/yungbote/neurobridge-coach/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-coach/internal/safeguarding"
)

// safeguardingStore backs the escalator with the flag and profile tables.
type safeguardingStore struct {
	flags    studentrepo.TraumaFlagRepo
	profiles studentrepo.ProfileRepo
}

func NewSafeguardingStore(flags studentrepo.TraumaFlagRepo, profiles studentrepo.ProfileRepo) safeguarding.Store {
	return &safeguardingStore{flags: flags, profiles: profiles}
}

func (s *safeguardingStore) AppendFlag(ctx context.Context, flag *types.TraumaFlag) error {
	return s.flags.Create(dbctx.Context{Ctx: ctx}, flag)
}

func (s *safeguardingStore) RaiseStatus(ctx context.Context, studentID string, to types.SafeguardingStatus) (bool, error) {
	return s.profiles.RaiseStatus(dbctx.Context{Ctx: ctx}, studentID, to)
}
