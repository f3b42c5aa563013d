// Package intervention chooses a coaching lever for the top-ranked barrier.
package intervention

import (
	"strings"

	"github.com/yungbote/neurobridge-coach/internal/domain/coach"
)

// HighEmotionalLevel is the level above which calming levers are preferred.
const HighEmotionalLevel = 0.7

type Selector struct{}

func NewSelector() *Selector { return &Selector{} }

// Select returns nil when nothing was detected or the top barrier has no levers.
func (s *Selector) Select(ranked []coach.DetectedBarrier, sctx *coach.StudentContext) *coach.InterventionLever {
	if len(ranked) == 0 || ranked[0].Barrier == nil {
		return nil
	}
	levers := ranked[0].Barrier.EffectiveLevers
	if len(levers) == 0 {
		return nil
	}
	if sctx != nil && sctx.BrainState.EmotionalLevel > HighEmotionalLevel {
		for i := range levers {
			if IsCalming(&levers[i]) {
				return &levers[i]
			}
		}
	}
	return &levers[0]
}

// IsCalming reports whether a lever targets de-escalation.
func IsCalming(l *coach.InterventionLever) bool {
	return strings.Contains(l.BrainStateTarget, "lower") || strings.Contains(l.BrainStateTarget, "calm")
}

// OpeningLine is the first thing said when applying a lever.
func OpeningLine(l *coach.InterventionLever) string {
	if l == nil {
		return ""
	}
	if len(l.Steps) > 0 {
		return l.Steps[0]
	}
	return l.Description
}
