package student

import (
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-coach/internal/domain/student"
	"github.com/yungbote/neurobridge-coach/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-coach/internal/platform/errs"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

type RewardGrantRepo interface {
	Create(dbc dbctx.Context, row *types.RewardGrant) error
	GetByCode(dbc dbctx.Context, code string) (*types.RewardGrant, error)
	CountByStudent(dbc dbctx.Context, studentID string) (int64, error)
}

type rewardGrantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRewardGrantRepo(db *gorm.DB, baseLog *logger.Logger) RewardGrantRepo {
	return &rewardGrantRepo{db: db, log: baseLog.With("repo", "RewardGrantRepo")}
}

func (r *rewardGrantRepo) Create(dbc dbctx.Context, row *types.RewardGrant) error {
	if row == nil || row.StudentID == "" || row.Code == "" {
		return errs.ErrInvalidArgument
	}
	return dbc.Conn(r.db).Create(row).Error
}

func (r *rewardGrantRepo) GetByCode(dbc dbctx.Context, code string) (*types.RewardGrant, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, errs.ErrNotFound
	}
	var row types.RewardGrant
	if err := dbc.Conn(r.db).Where("code = ?", code).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.Code == "" {
		return nil, errs.ErrNotFound
	}
	return &row, nil
}

func (r *rewardGrantRepo) CountByStudent(dbc dbctx.Context, studentID string) (int64, error) {
	var n int64
	err := dbc.Conn(r.db).Model(&types.RewardGrant{}).Where("student_id = ?", studentID).Count(&n).Error
	return n, err
}
