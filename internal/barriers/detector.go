// Package barriers classifies avoidance behaviour in a student message against the
// barrier catalog.
package barriers

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yungbote/neurobridge-coach/internal/domain/coach"
)

const (
	LackOfMotivation       = "lack_of_motivation"
	ConfrontationalShowoff = "confrontational_showoff"
	SilentAvoider          = "silent_avoider"
)

// minimalLength is the trimmed length, in characters, below which a reply counts as minimal engagement.
const minimalLength = 10

// Catalog resolves barrier ids.
type Catalog interface {
	Lookup(id string) (*coach.StudentBarrier, bool)
}

type rule struct {
	barrierID  string
	confidence float64
	reasoning  string
	match      func(text string) bool
}

type Detector struct {
	catalog Catalog
	rules   []rule
}

var (
	dontKnowPatterns = compile(
		`i don'?t know`,
		`idk`,
		`dunno`,
		`no idea`,
	)
	confrontationalPatterns = compile(
		`this is (stupid|dumb|boring)`,
		`why (do|should) i`,
		`i don'?t (care|want to)`,
		`whatever`,
		`so what`,
	)
)

func NewDetector(catalog Catalog) *Detector {
	return &Detector{
		catalog: catalog,
		rules: []rule{
			{
				barrierID:  LackOfMotivation,
				confidence: 0.8,
				reasoning:  `Student used "I don't know" - primary avoidance tactic`,
				match:      IsDontKnow,
			},
			{
				barrierID:  ConfrontationalShowoff,
				confidence: 0.7,
				reasoning:  "Confrontational or dismissive language detected",
				match:      func(text string) bool { return matchAny(confrontationalPatterns, text) },
			},
			{
				barrierID:  SilentAvoider,
				confidence: 0.6,
				reasoning:  "Minimal engagement, very short response",
				match: func(text string) bool {
					return utf8.RuneCountInString(strings.TrimSpace(text)) < minimalLength && !IsDontKnow(text)
				},
			},
		},
	}
}

// Detect returns every triggered barrier ranked by confidence, ties in rule order.
// Rules whose barrier id is absent from the catalog are skipped.
func (d *Detector) Detect(text string, _ *coach.StudentContext) []coach.DetectedBarrier {
	out := make([]coach.DetectedBarrier, 0, len(d.rules))
	for _, r := range d.rules {
		if !r.match(text) {
			continue
		}
		b, ok := d.catalog.Lookup(r.barrierID)
		if !ok {
			continue
		}
		out = append(out, coach.DetectedBarrier{
			Barrier:    b,
			Confidence: r.confidence,
			Reasoning:  []string{r.reasoning},
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}

// IsDontKnow reports whether text contains an "I don't know" variant.
func IsDontKnow(text string) bool {
	return matchAny(dontKnowPatterns, text)
}

func matchAny(res []*regexp.Regexp, text string) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`(?i)`+p))
	}
	return out
}
