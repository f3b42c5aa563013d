package student

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-coach/internal/domain/student"
	"github.com/yungbote/neurobridge-coach/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

type InterestRepo interface {
	// ListByStudent returns interests most recently mentioned first.
	ListByStudent(dbc dbctx.Context, studentID string) ([]types.Interest, error)
	Upsert(dbc dbctx.Context, row *types.Interest) error
}

type interestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInterestRepo(db *gorm.DB, baseLog *logger.Logger) InterestRepo {
	return &interestRepo{db: db, log: baseLog.With("repo", "InterestRepo")}
}

func (r *interestRepo) ListByStudent(dbc dbctx.Context, studentID string) ([]types.Interest, error) {
	var out []types.Interest
	if studentID == "" {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("student_id = ?", studentID).
		Order("last_mentioned DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *interestRepo) Upsert(dbc dbctx.Context, row *types.Interest) error {
	if row == nil || row.StudentID == "" || row.Specific == "" {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "specific"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"category",
				"confidence",
				"last_mentioned",
				"mention_count",
			}),
		}).
		Create(row).Error
}
