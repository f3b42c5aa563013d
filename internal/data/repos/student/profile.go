package student

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-coach/internal/domain/student"
	"github.com/yungbote/neurobridge-coach/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

type ProfileRepo interface {
	GetByStudentID(dbc dbctx.Context, studentID string) (*types.Profile, error)
	Ensure(dbc dbctx.Context, studentID string) error
	// RaiseStatus moves the student to status only if that is a higher tier than
	// the stored one. It reports whether a row changed.
	RaiseStatus(dbc dbctx.Context, studentID string, status types.SafeguardingStatus) (bool, error)
	// SetStatus overwrites the tier unconditionally. Reserved for staff review.
	SetStatus(dbc dbctx.Context, studentID string, status types.SafeguardingStatus) error
	RecordInteraction(dbc dbctx.Context, in InteractionUpdate) error
}

// InteractionUpdate carries the per-message profile changes.
type InteractionUpdate struct {
	StudentID      string
	Age            int
	ActiveBarriers []string
	RewardEarned   bool
	At             time.Time
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "ProfileRepo")}
}

func (r *profileRepo) GetByStudentID(dbc dbctx.Context, studentID string) (*types.Profile, error) {
	if studentID == "" {
		return nil, nil
	}
	var row types.Profile
	if err := dbc.Conn(r.db).Where("student_id = ?", studentID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.StudentID == "" {
		return nil, nil
	}
	return &row, nil
}

func (r *profileRepo) Ensure(dbc dbctx.Context, studentID string) error {
	if studentID == "" {
		return nil
	}
	row := &types.Profile{
		StudentID:          studentID,
		SafeguardingStatus: types.StatusClear,
		PlayBreakStage:     types.DefaultPlayBreakStage,
	}
	return dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *profileRepo) RaiseStatus(dbc dbctx.Context, studentID string, status types.SafeguardingStatus) (bool, error) {
	if studentID == "" || status.Rank() == 0 {
		return false, nil
	}
	if err := r.Ensure(dbc, studentID); err != nil {
		return false, err
	}
	res := dbc.Conn(r.db).
		Model(&types.Profile{}).
		Where("student_id = ? AND safeguarding_status IN ?", studentID, lowerThan(status)).
		Updates(map[string]interface{}{
			"safeguarding_status": status,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *profileRepo) SetStatus(dbc dbctx.Context, studentID string, status types.SafeguardingStatus) error {
	if studentID == "" {
		return nil
	}
	if err := r.Ensure(dbc, studentID); err != nil {
		return err
	}
	return dbc.Conn(r.db).
		Model(&types.Profile{}).
		Where("student_id = ?", studentID).
		Updates(map[string]interface{}{
			"safeguarding_status": status,
			"updated_at":          time.Now().UTC(),
		}).Error
}

func (r *profileRepo) RecordInteraction(dbc dbctx.Context, in InteractionUpdate) error {
	if in.StudentID == "" {
		return nil
	}
	if err := r.Ensure(dbc, in.StudentID); err != nil {
		return err
	}
	active := in.ActiveBarriers
	if active == nil {
		active = []string{}
	}
	raw, err := json.Marshal(active)
	if err != nil {
		return err
	}
	at := in.At.UTC()
	updates := map[string]interface{}{
		"active_barriers":  datatypes.JSON(raw),
		"last_interaction": at,
		"updated_at":       at,
	}
	if in.Age > 0 {
		updates["age"] = in.Age
	}
	if in.RewardEarned {
		updates["rewards_earned"] = gorm.Expr("rewards_earned + ?", 1)
	}
	return dbc.Conn(r.db).
		Model(&types.Profile{}).
		Where("student_id = ?", in.StudentID).
		Updates(updates).Error
}

func lowerThan(status types.SafeguardingStatus) []types.SafeguardingStatus {
	all := []types.SafeguardingStatus{
		types.StatusClear,
		types.StatusMonitoring,
		types.StatusEscalated,
		types.StatusActiveSupport,
	}
	out := make([]types.SafeguardingStatus, 0, len(all))
	for _, s := range all {
		if s.Rank() < status.Rank() {
			out = append(out, s)
		}
	}
	return out
}
