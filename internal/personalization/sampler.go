// Package personalization rewrites coach replies around a student's interests and
// tracks which interests a student has mentioned.
package personalization

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/yungbote/neurobridge-coach/internal/domain/student"
)

const (
	TaskReward    = "reward"
	TaskChallenge = "challenge"

	GenericResponse = "Let's tackle this together. Give it a try and see what you can do!"

	DefaultRate       = 0.3
	DefaultUsageLimit = 3
	recentWindow      = 5
)

// Rand is the randomness the sampler draws on.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) Intn(n int) int { return rand.IntN(n) }

// UsageCounter reports how often an interest was referenced recently.
type UsageCounter interface {
	RecentUsageCount(ctx context.Context, studentID, label string) (int, error)
}

type family string

const (
	familyGameReward    family = "gameReward"
	familyTaskFraming   family = "taskFraming"
	familyEncouragement family = "encouragement"
)

var templates = map[family][]string{
	familyGameReward: {
		"Complete this and you'll get 5 minutes on %s!",
		"Let's knock this out so you can play %s.",
		"Finish this task = %s time. Deal?",
	},
	familyTaskFraming: {
		"Think of this like %s - you need to figure out the strategy.",
		"This is like leveling up in %s - just need to complete this challenge.",
		"Remember how you solved that puzzle in %s? Same thinking here.",
	},
	familyEncouragement: {
		"You've got this - you tackle way harder stuff in %s!",
		"If you can master %s, you can handle this.",
		"Apply that %s focus here and you'll crush it.",
	},
}

func familyFor(taskType string) family {
	switch taskType {
	case TaskReward:
		return familyGameReward
	case TaskChallenge:
		return familyTaskFraming
	default:
		return familyEncouragement
	}
}

// Rewrite is the sampler's output. Interest is empty when the generic text was used.
type Rewrite struct {
	Text     string
	Interest string
}

type Sampler struct {
	usage      UsageCounter
	rng        Rand
	rate       float64
	usageLimit int
}

type Option func(*Sampler)

func WithRand(r Rand) Option {
	return func(s *Sampler) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithRate sets the probability that a reply is personalized.
func WithRate(rate float64) Option {
	return func(s *Sampler) {
		if rate >= 0 && rate <= 1 {
			s.rate = rate
		}
	}
}

func WithUsageLimit(n int) Option {
	return func(s *Sampler) {
		if n > 0 {
			s.usageLimit = n
		}
	}
}

func NewSampler(usage UsageCounter, opts ...Option) *Sampler {
	s := &Sampler{usage: usage, rng: globalRand{}, rate: DefaultRate, usageLimit: DefaultUsageLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ShouldPersonalize draws once per message. Students without interests are never sampled.
func (s *Sampler) ShouldPersonalize(interests []student.Interest) bool {
	if len(interests) == 0 {
		return false
	}
	return s.rng.Float64() < s.rate
}

// Rewrite picks the least recent of the five most recently mentioned interests and,
// unless it was used too often lately, renders a template for the task type around it.
func (s *Sampler) Rewrite(ctx context.Context, studentID string, interests []student.Interest, taskType string) (Rewrite, error) {
	pick, ok := pickInterest(interests)
	if !ok {
		return Rewrite{Text: GenericResponse}, nil
	}
	count := 0
	if s.usage != nil {
		n, err := s.usage.RecentUsageCount(ctx, studentID, pick.Specific)
		if err != nil {
			return Rewrite{Text: GenericResponse}, fmt.Errorf("interest usage lookup: %w", err)
		}
		count = n
	}
	if count >= s.usageLimit {
		return Rewrite{Text: GenericResponse}, nil
	}
	options := templates[familyFor(taskType)]
	tmpl := options[s.rng.Intn(len(options))]
	return Rewrite{Text: fmt.Sprintf(tmpl, pick.Specific), Interest: pick.Specific}, nil
}

func pickInterest(interests []student.Interest) (student.Interest, bool) {
	if len(interests) == 0 {
		return student.Interest{}, false
	}
	sorted := make([]student.Interest, len(interests))
	copy(sorted, interests)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastMentioned.After(sorted[j].LastMentioned)
	})
	if len(sorted) > recentWindow {
		sorted = sorted[:recentWindow]
	}
	return sorted[len(sorted)-1], true
}
