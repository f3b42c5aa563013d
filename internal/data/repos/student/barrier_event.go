package student

import (
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-coach/internal/domain/student"
	"github.com/yungbote/neurobridge-coach/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

type BarrierEventRepo interface {
	Create(dbc dbctx.Context, rows []*types.BarrierEvent) error
	ListByStudent(dbc dbctx.Context, studentID string, limit int) ([]*types.BarrierEvent, error)
}

type barrierEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBarrierEventRepo(db *gorm.DB, baseLog *logger.Logger) BarrierEventRepo {
	return &barrierEventRepo{db: db, log: baseLog.With("repo", "BarrierEventRepo")}
}

func (r *barrierEventRepo) Create(dbc dbctx.Context, rows []*types.BarrierEvent) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.Conn(r.db).Create(&rows).Error
}

func (r *barrierEventRepo) ListByStudent(dbc dbctx.Context, studentID string, limit int) ([]*types.BarrierEvent, error) {
	var out []*types.BarrierEvent
	if studentID == "" {
		return out, nil
	}
	q := dbc.Conn(r.db).Where("student_id = ?", studentID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
