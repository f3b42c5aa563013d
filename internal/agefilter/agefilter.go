// Package agefilter adapts coach replies to the reading level of the student's age.
package agefilter

import (
	"fmt"
	"strings"

	"github.com/yungbote/neurobridge-coach/internal/catalog"
)

type replacement struct {
	from string
	to   string
}

// Longest phrases first so shorter entries never split a longer match.
var simpler = []replacement{
	{"demonstrate", "show"},
	{"substantial", "big"},
	{"synthesize", "put together"},
	{"hypothesis", "idea to test"},
	{"comprehend", "understand"},
	{"facilitate", "help with"},
	{"sufficient", "enough"},
	{"implement", "try out"},
	{"terminate", "stop"},
	{"challenge", "hard thing"},
	{"consider", "think about"},
	{"evaluate", "look at"},
	{"commence", "start"},
	{"struggle", "having trouble"},
	{"analyze", "look at carefully"},
	{"utilize", "use"},
}

var abstractPhrases = []string{
	"in other words,",
	"metaphorically speaking,",
	"from a theoretical perspective,",
	"conceptually,",
	"theoretically,",
	"hypothetically,",
	"essentially,",
	"arguably,",
}

const (
	simplifyBelow = 10
	concreteBelow = 8
)

type Adjuster struct {
	groups []catalog.AgeGroup
}

func New(groups []catalog.AgeGroup) *Adjuster {
	return &Adjuster{groups: groups}
}

// NewDefault uses the embedded age-group table.
func NewDefault() (*Adjuster, error) {
	groups, err := catalog.AgeGroups()
	if err != nil {
		return nil, err
	}
	return New(groups), nil
}

// AdjustLanguage simplifies vocabulary for under-10s, drops abstract framing for
// under-8s and splits sentences longer than the age group allows.
func (a *Adjuster) AdjustLanguage(text string, age int) string {
	g := a.groupFor(age)
	if g == nil {
		return text
	}
	out := text
	if age < simplifyBelow {
		out = simplifyVocabulary(out)
	}
	if age < concreteBelow {
		out = removeAbstract(out)
	}
	if g.MaxWordsPerSentence > 0 {
		out = splitLongSentences(out, g.MaxWordsPerSentence)
	}
	return out
}

// SafeguardingResponse is the age-tiered "talk to a trusted adult" line.
func (a *Adjuster) SafeguardingResponse(age int) string {
	switch {
	case age < 10:
		return "Let's talk to a trusted adult about this. A teacher or parent can help."
	case age < 13:
		return "I think it would be helpful to talk to someone who can support you better, like a teacher, parent, or counselor."
	default:
		return "I think it would be helpful to talk to a trusted adult or counselor about this. Your wellbeing is important."
	}
}

// OffenseRisks lists reasons a reply may land badly for a student of this age.
func (a *Adjuster) OffenseRisks(text string, age int) []string {
	lower := strings.ToLower(text)
	var risks []string
	if age >= 10 {
		for _, p := range []string{"super duper", "really really", "yay!", "good job!", "well done!"} {
			if strings.Contains(lower, p) {
				risks = append(risks, fmt.Sprintf("potentially condescending for age %d: %q", age, p))
				break
			}
		}
	}
	if age < concreteBelow {
		var complex []string
		for _, w := range []string{"evaluate", "analyze", "synthesize", "hypothesis", "implementation", "facilitate", "comprehend", "utilize"} {
			if strings.Contains(lower, w) {
				complex = append(complex, w)
			}
		}
		if len(complex) > 0 {
			risks = append(risks, fmt.Sprintf("vocabulary too complex for age %d: %v", age, complex))
		}
	}
	if g := a.groupFor(age); g != nil && g.MaxWordsPerSentence > 0 && age < 12 {
		for _, s := range strings.Split(text, ".") {
			if n := len(strings.Fields(s)); n > g.MaxWordsPerSentence*2 {
				risks = append(risks, fmt.Sprintf("sentence too long for age %d: %d words (max %d)", age, n, g.MaxWordsPerSentence))
				break
			}
		}
	}
	return risks
}

func (a *Adjuster) groupFor(age int) *catalog.AgeGroup {
	for i := range a.groups {
		if age >= a.groups[i].MinAge && age <= a.groups[i].MaxAge {
			return &a.groups[i]
		}
	}
	return nil
}

func simplifyVocabulary(text string) string {
	for _, r := range simpler {
		text = strings.ReplaceAll(text, r.from, r.to)
		text = strings.ReplaceAll(text, capitalize(r.from), capitalize(r.to))
	}
	return text
}

func removeAbstract(text string) string {
	for _, p := range abstractPhrases {
		text = strings.ReplaceAll(text, p, "")
		text = strings.ReplaceAll(text, capitalize(p), "")
	}
	return capitalize(strings.Join(strings.Fields(text), " "))
}

// splitLongSentences breaks any sentence over max words at a conjunction or comma
// past the halfway mark, or at max words. Short sentences are left untouched.
func splitLongSentences(text string, max int) string {
	words := strings.Fields(text)
	if len(words) <= max {
		return text
	}
	var out []string
	var cur []string
	flush := func(end bool) {
		if len(cur) == 0 {
			return
		}
		last := strings.TrimSuffix(cur[len(cur)-1], ",")
		if !end && !endsSentence(last) {
			last += "."
		}
		cur[len(cur)-1] = last
		out = append(out, strings.Join(cur, " "))
		cur = nil
	}
	for i, w := range words {
		if len(cur) == 0 && len(out) > 0 {
			w = capitalize(w)
		}
		cur = append(cur, w)
		if endsSentence(w) {
			flush(true)
			continue
		}
		if i == len(words)-1 {
			break
		}
		lw := strings.ToLower(w)
		breakable := strings.HasSuffix(w, ",") || lw == "and" || lw == "but" || lw == "or"
		if len(cur) >= max || (breakable && len(cur) >= max/2) {
			if lw == "and" || lw == "but" || lw == "or" {
				cur = cur[:len(cur)-1]
				flush(false)
				cur = append(cur, capitalize(w))
				continue
			}
			flush(false)
		}
	}
	flush(true)
	return strings.Join(out, " ")
}

func endsSentence(w string) bool {
	return strings.HasSuffix(w, ".") || strings.HasSuffix(w, "?") || strings.HasSuffix(w, "!")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
