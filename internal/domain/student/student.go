package student

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SafeguardingStatus string

const (
	StatusClear         SafeguardingStatus = "clear"
	StatusMonitoring    SafeguardingStatus = "monitoring"
	StatusEscalated     SafeguardingStatus = "escalated"
	StatusActiveSupport SafeguardingStatus = "active_support"
)

// Rank orders statuses by concern. Unknown values rank as clear.
func (s SafeguardingStatus) Rank() int {
	switch s {
	case StatusMonitoring:
		return 1
	case StatusEscalated:
		return 2
	case StatusActiveSupport:
		return 3
	default:
		return 0
	}
}

// StatusForSeverity maps a safeguarding severity to the tier it requires.
func StatusForSeverity(severity int) SafeguardingStatus {
	switch {
	case severity >= 3:
		return StatusEscalated
	case severity >= 1:
		return StatusMonitoring
	default:
		return StatusClear
	}
}

const DefaultPlayBreakStage = "level_1"

// Profile is the long-lived per-student record. StudentID is the caller-supplied
// identifier; the row is created lazily on first contact.
type Profile struct {
	StudentID          string             `gorm:"column:student_id;primaryKey" json:"student_id"`
	Age                int                `gorm:"column:age;not null;default:0" json:"age"`
	SafeguardingStatus SafeguardingStatus `gorm:"column:safeguarding_status;not null;default:'clear';index" json:"safeguarding_status"`
	RewardsEarned      int                `gorm:"column:rewards_earned;not null;default:0" json:"rewards_earned"`
	PlayBreakStage     string             `gorm:"column:play_break_stage;not null;default:'level_1'" json:"play_break_stage"`
	ActiveBarriers     datatypes.JSON     `gorm:"column:active_barriers" json:"active_barriers"`
	LastInteraction    *time.Time         `gorm:"column:last_interaction" json:"last_interaction,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Profile) TableName() string { return "student_profile" }

// TraumaFlag is an append-only record of a safeguarding detection. Content holds the
// raw disclosure and must never be logged.
type TraumaFlag struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID     string     `gorm:"column:student_id;not null;index" json:"student_id"`
	Severity      int        `gorm:"column:severity;not null" json:"severity"`
	Category      string     `gorm:"column:category;not null" json:"category"`
	Content       string     `gorm:"column:content;not null" json:"-"`
	AIResponse    string     `gorm:"column:ai_response;not null" json:"ai_response"`
	HumanReviewed bool       `gorm:"column:human_reviewed;not null;default:false;index" json:"human_reviewed"`
	ReviewedBy    string     `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	Outcome       string     `gorm:"column:outcome" json:"outcome,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (TraumaFlag) TableName() string { return "trauma_flag" }

func (f *TraumaFlag) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Interest is a detected student interest. Rows are never deleted.
type Interest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID     string    `gorm:"column:student_id;not null;uniqueIndex:idx_student_interest" json:"student_id"`
	Category      string    `gorm:"column:category;not null" json:"category"`
	Specific      string    `gorm:"column:specific;not null;uniqueIndex:idx_student_interest" json:"specific"`
	Confidence    float64   `gorm:"column:confidence;not null" json:"confidence"`
	LastMentioned time.Time `gorm:"column:last_mentioned;not null;index" json:"last_mentioned"`
	MentionCount  int       `gorm:"column:mention_count;not null;default:1" json:"mention_count"`
}

func (Interest) TableName() string { return "student_interest" }

func (i *Interest) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// BarrierEvent records a barrier observed in one message and the lever applied to it.
type BarrierEvent struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID    string    `gorm:"column:student_id;not null;index" json:"student_id"`
	BarrierID    string    `gorm:"column:barrier_id;not null;index" json:"barrier_id"`
	Confidence   float64   `gorm:"column:confidence;not null" json:"confidence"`
	Intervention string    `gorm:"column:intervention" json:"intervention,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (BarrierEvent) TableName() string { return "barrier_event" }

func (e *BarrierEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// RewardGrant records an issued reward code.
type RewardGrant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID string    `gorm:"column:student_id;not null;index" json:"student_id"`
	Code      string    `gorm:"column:code;not null;uniqueIndex" json:"code"`
	IssuedAt  time.Time `gorm:"column:issued_at;not null" json:"issued_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (RewardGrant) TableName() string { return "reward_grant" }

func (g *RewardGrant) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
