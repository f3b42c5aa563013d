package student

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-coach/internal/domain/student"
	"github.com/yungbote/neurobridge-coach/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-coach/internal/platform/errs"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

type TraumaFlagRepo interface {
	Create(dbc dbctx.Context, flag *types.TraumaFlag) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.TraumaFlag, error)
	ListByStudent(dbc dbctx.Context, studentID string) ([]*types.TraumaFlag, error)
	ListPending(dbc dbctx.Context, limit int) ([]*types.TraumaFlag, error)
	MarkReviewed(dbc dbctx.Context, id uuid.UUID, reviewer, outcome string, at time.Time) error
}

type traumaFlagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTraumaFlagRepo(db *gorm.DB, baseLog *logger.Logger) TraumaFlagRepo {
	return &traumaFlagRepo{db: db, log: baseLog.With("repo", "TraumaFlagRepo")}
}

func (r *traumaFlagRepo) Create(dbc dbctx.Context, flag *types.TraumaFlag) error {
	if flag == nil || flag.StudentID == "" {
		return errs.ErrInvalidArgument
	}
	if flag.Severity < 1 || flag.Severity > 4 {
		return errs.ErrInvalidArgument
	}
	flag.HumanReviewed = false
	return dbc.Conn(r.db).Create(flag).Error
}

func (r *traumaFlagRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.TraumaFlag, error) {
	if id == uuid.Nil {
		return nil, errs.ErrNotFound
	}
	var row types.TraumaFlag
	if err := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, errs.ErrNotFound
	}
	return &row, nil
}

func (r *traumaFlagRepo) ListByStudent(dbc dbctx.Context, studentID string) ([]*types.TraumaFlag, error) {
	var out []*types.TraumaFlag
	if studentID == "" {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *traumaFlagRepo) ListPending(dbc dbctx.Context, limit int) ([]*types.TraumaFlag, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []*types.TraumaFlag
	if err := dbc.Conn(r.db).
		Where("human_reviewed = ?", false).
		Order("severity DESC, created_at ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *traumaFlagRepo) MarkReviewed(dbc dbctx.Context, id uuid.UUID, reviewer, outcome string, at time.Time) error {
	if id == uuid.Nil || reviewer == "" {
		return errs.ErrInvalidArgument
	}
	res := dbc.Conn(r.db).
		Model(&types.TraumaFlag{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"human_reviewed": true,
			"reviewed_by":    reviewer,
			"reviewed_at":    at.UTC(),
			"outcome":        outcome,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
