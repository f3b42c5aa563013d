// Package coach holds the request-scoped types that flow through the message
// triage pipeline: the student's momentary state, the static barrier catalog
// shapes, and the pipeline result.
package coach

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/neurobridge-coach/internal/platform/errs"
)

type BrainMode string

const (
	ModePrimal    BrainMode = "primal"
	ModeEmotional BrainMode = "emotional"
	ModeRational  BrainMode = "rational"
)

// BrainState is the three-axis regulatory model. All levels are normalized.
type BrainState struct {
	PrimalLevel    float64   `json:"primal_level" validate:"gte=0,lte=1"`
	EmotionalLevel float64   `json:"emotional_level" validate:"gte=0,lte=1"`
	RationalLevel  float64   `json:"rational_level" validate:"gte=0,lte=1"`
	CurrentMode    BrainMode `json:"current_mode,omitempty" validate:"omitempty,oneof=primal emotional rational"`
}

// ETP is an activated emotional trigger point.
type ETP struct {
	Name      string  `json:"name" validate:"required"`
	Category  string  `json:"category" validate:"oneof=pain pleasure social goal"`
	Intensity float64 `json:"intensity" validate:"gte=0,lte=1"`
}

type RoutineProfile struct {
	RoutineDependency float64 `json:"routine_dependency" validate:"gte=0,lte=1"`
	ThinkingAtrophy   float64 `json:"thinking_atrophy" validate:"gte=0,lte=1"`
	FenceVoltage      float64 `json:"fence_voltage" validate:"gte=0,lte=1"`
}

// StudentContext is supplied with every message. Out-of-range scores are a
// caller error; Validate rejects them rather than clamping.
type StudentContext struct {
	Age                int            `json:"age" validate:"gte=3,lte=25"`
	BrainState         BrainState     `json:"brain_state"`
	ActivatedETPs      []ETP          `json:"activated_etps,omitempty" validate:"dive"`
	RoutineProfile     RoutineProfile `json:"routine_profile"`
	SocialNeed         float64        `json:"social_need" validate:"gte=0,lte=1"`
	AutonomyResistance float64        `json:"autonomy_resistance" validate:"gte=0,lte=1"`
	StatusSeeking      float64        `json:"status_seeking" validate:"gte=0,lte=1"`
	// TaskType picks the personalization template family ("reward", "challenge", other).
	TaskType string `json:"task_type,omitempty" validate:"max=32"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

func (c *StudentContext) Validate() error {
	if c == nil {
		return fmt.Errorf("student context required: %w", errs.ErrInvalidArgument)
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("student context: %v: %w", err, errs.ErrInvalidArgument)
	}
	return nil
}

type BarrierCategory string

const (
	BarrierAcute      BarrierCategory = "acute"
	BarrierChronic    BarrierCategory = "chronic"
	BarrierStructural BarrierCategory = "structural"
)

// InterventionLever is a concrete coaching action. BrainStateTarget is free text;
// calming levers are recognized by substring ("lower", "calm").
type InterventionLever struct {
	Name             string   `json:"name" yaml:"name"`
	Description      string   `json:"description" yaml:"description"`
	Steps            []string `json:"steps" yaml:"steps"`
	Prerequisites    []string `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
	Benefits         []string `json:"benefits,omitempty" yaml:"benefits,omitempty"`
	ETPReduction     []string `json:"etp_reduction" yaml:"etp_reduction"`
	BrainStateTarget string   `json:"brain_state_target" yaml:"brain_state_target"`
	WhenToUse        []string `json:"when_to_use,omitempty" yaml:"when_to_use,omitempty"`
}

// StudentBarrier is an immutable catalog entry. Lever order is the default preference.
type StudentBarrier struct {
	ID               string              `json:"id" yaml:"id"`
	Name             string              `json:"name" yaml:"name"`
	Category         BarrierCategory     `json:"category" yaml:"category"`
	Description      string              `json:"description,omitempty" yaml:"description"`
	ActivatedETPs    []string            `json:"activated_etps" yaml:"activated_etps"`
	AvoidanceTactics []string            `json:"avoidance_tactics" yaml:"avoidance_tactics"`
	EffectiveLevers  []InterventionLever `json:"effective_levers" yaml:"effective_levers"`
	UnderlyingCause  string              `json:"underlying_cause" yaml:"underlying_cause"`
}

// DetectedBarrier is a per-request match against the catalog.
type DetectedBarrier struct {
	Barrier    *StudentBarrier `json:"barrier"`
	Confidence float64         `json:"confidence"`
	Reasoning  []string        `json:"reasoning"`
}

// Result is what the pipeline hands back to the transport layer.
type Result struct {
	Message           string             `json:"message"`
	Intervention      *InterventionLever `json:"intervention"`
	DetectedBarriers  []StudentBarrier   `json:"detected_barriers"`
	SafeguardingAlert bool               `json:"safeguarding_alert"`
	RewardEarned      bool               `json:"reward_earned"`
	Reasoning         []string           `json:"reasoning"`
	RewardCode        string             `json:"reward_code,omitempty"`
	Timestamp         time.Time          `json:"timestamp"`
}
