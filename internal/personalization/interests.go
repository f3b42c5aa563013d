package personalization

import (
	"regexp"
	"time"

	"github.com/yungbote/neurobridge-coach/internal/domain/student"
)

const (
	initialConfidence = 0.8
	confidenceStep    = 0.1
	maxConfidence     = 1.0
)

// Mention is an interest recognized in a single message.
type Mention struct {
	Category string
	Specific string
}

type interestPattern struct {
	category string
	specific string
	re       *regexp.Regexp
}

var interestPatterns = []interestPattern{
	{"games", "Minecraft", regexp.MustCompile(`(?i)\bminecraft\b`)},
	{"games", "Fortnite", regexp.MustCompile(`(?i)\bfortnite\b`)},
	{"games", "Roblox", regexp.MustCompile(`(?i)\broblox\b`)},
	{"games", "Among Us", regexp.MustCompile(`(?i)\bamong us\b`)},
	{"sports", "Football", regexp.MustCompile(`(?i)\b(football|soccer)\b`)},
	{"sports", "Basketball", regexp.MustCompile(`(?i)\bbasketball\b`)},
	{"sports", "Swimming", regexp.MustCompile(`(?i)\bswimming\b`)},
	{"hobbies", "Drawing", regexp.MustCompile(`(?i)\b(drawing|art)\b`)},
	{"hobbies", "Music", regexp.MustCompile(`(?i)\b(music|guitar|piano)\b`)},
	{"hobbies", "Reading", regexp.MustCompile(`(?i)\b(reading|books)\b`)},
	{"subjects", "Space", regexp.MustCompile(`(?i)\b(space|astronomy|planets)\b`)},
	{"subjects", "Dinosaurs", regexp.MustCompile(`(?i)\bdinosaurs?\b`)},
	{"subjects", "Animals", regexp.MustCompile(`(?i)\b(animals|wildlife)\b`)},
	{"media", "YouTube", regexp.MustCompile(`(?i)\byoutube\b`)},
	{"media", "TikTok", regexp.MustCompile(`(?i)\btiktok\b`)},
	{"media", "TV Shows", regexp.MustCompile(`(?i)\b(netflix|series|show)\b`)},
}

// DetectInterests returns the interests mentioned in text, in table order.
func DetectInterests(text string) []Mention {
	var out []Mention
	for _, p := range interestPatterns {
		if p.re.MatchString(text) {
			out = append(out, Mention{Category: p.category, Specific: p.specific})
		}
	}
	return out
}

// Track folds a mention into the stored interest, creating it on first mention.
// Confidence saturates at 1.0 and MentionCount only grows.
func Track(existing *student.Interest, studentID string, m Mention, now time.Time) *student.Interest {
	if existing == nil {
		return &student.Interest{
			StudentID:     studentID,
			Category:      m.Category,
			Specific:      m.Specific,
			Confidence:    initialConfidence,
			LastMentioned: now,
			MentionCount:  1,
		}
	}
	next := *existing
	next.MentionCount++
	next.LastMentioned = now
	next.Confidence = min(next.Confidence+confidenceStep, maxConfidence)
	return &next
}
