// Package safeguarding detects disclosures of harm in student messages and runs the
// escalation that follows a detection.
package safeguarding

import (
	"regexp"
	"strings"
)

const (
	CategorySexual   = "sexual"
	CategoryViolence = "violence"
	CategoryNeglect  = "neglect"
	CategoryNone     = "none"
)

// Result is the outcome of a single scan. Severity is 0 when nothing was detected.
type Result struct {
	Detected bool   `json:"detected"`
	Severity int    `json:"severity"`
	Category string `json:"category"`
}

func None() Result {
	return Result{Category: CategoryNone}
}

type rule struct {
	patterns []*regexp.Regexp
	severity func(age int) int
}

type detector struct {
	category string
	rules    []rule
}

// Scanner runs an ordered battery of category detectors. Within a detector rules
// are ordered by severity, highest first, and the first match wins.
type Scanner struct {
	detectors []detector
}

type Option func(*Scanner)

// WithNeglectDetector appends a neglect detector after violence.
func WithNeglectDetector() Option {
	return func(s *Scanner) {
		s.detectors = append(s.detectors, neglectDetector())
	}
}

func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{detectors: []detector{sexualDetector(), violenceDetector()}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan is pure: it has no side effects and depends only on its inputs.
func (s *Scanner) Scan(text string, age int) Result {
	if strings.TrimSpace(text) == "" {
		return None()
	}
	for _, d := range s.detectors {
		for _, r := range d.rules {
			for _, re := range r.patterns {
				if re.MatchString(text) {
					return Result{Detected: true, Severity: r.severity(age), Category: d.category}
				}
			}
		}
	}
	return None()
}

// AgeThreshold is the developmental threshold below which moderate sexual-content
// indicators are treated as serious.
func AgeThreshold(age int) int {
	switch {
	case age < 10:
		return 10
	case age < 13:
		return 13
	default:
		return 16
	}
}

func fixed(n int) func(int) int {
	return func(int) int { return n }
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}

func sexualDetector() detector {
	return detector{
		category: CategorySexual,
		rules: []rule{
			{
				patterns: compile(`\b(sexual act|sexual abuse|touched me|made me)\b`),
				severity: fixed(4),
			},
			{
				patterns: compile(`\b(inappropriate touch|uncomfortable|scared of)\b`),
				severity: func(age int) int {
					if age < AgeThreshold(age) {
						return 3
					}
					return 2
				},
			},
		},
	}
}

func violenceDetector() detector {
	return detector{
		category: CategoryViolence,
		rules: []rule{
			{
				patterns: compile(
					`\b(going to hurt|going to kill|have a plan|get a weapon)\b`,
					`\b(tonight|tomorrow|after school) .*(hurt|kill|attack)\b`,
				),
				severity: fixed(4),
			},
			{
				patterns: compile(
					`\b(want to hurt|want to kill|hate .* want .* dead)\b`,
					`\b(hit|punch|stab|shoot) .*(specific person|name)\b`,
				),
				severity: fixed(3),
			},
		},
	}
}

func neglectDetector() detector {
	return detector{
		category: CategoryNeglect,
		rules: []rule{
			{
				patterns: compile(
					`\b(no food|haven'?t eaten|starving)\b`,
					`\b(no one cares|left alone|abandoned)\b`,
				),
				severity: fixed(3),
			},
		},
	}
}
