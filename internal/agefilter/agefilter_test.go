package agefilter

import (
	"strings"
	"testing"
)

func newAdjuster(t *testing.T) *Adjuster {
	t.Helper()
	a, err := NewDefault()
	if err != nil {
		t.Fatalf("NewDefault: %v", err)
	}
	return a
}

func TestAdjustLanguage(t *testing.T) {
	a := newAdjuster(t)
	cases := []struct {
		name string
		text string
		age  int
		want string
	}{
		{
			name: "simplify_under_ten",
			text: "Let's evaluate this and demonstrate it.",
			age:  8,
			want: "Let's look at this and show it.",
		},
		{
			name: "capitalized_word",
			text: "Consider the first step.",
			age:  9,
			want: "Think about the first step.",
		},
		{
			name: "no_simplification_for_teens",
			text: "Let's evaluate this and demonstrate it.",
			age:  14,
			want: "Let's evaluate this and demonstrate it.",
		},
		{
			name: "abstract_removed_under_eight",
			text: "Essentially, we add the numbers.",
			age:  6,
			want: "We add the numbers.",
		},
		{
			name: "long_sentence_split",
			text: "We are going to read the story together and then we will draw a picture of it.",
			age:  6,
			want: "We are going to read the story together. And then we will draw a picture of it.",
		},
		{
			name: "short_sentences_untouched",
			text: "I'm here to help. What would you like to work on?",
			age:  6,
			want: "I'm here to help. What would you like to work on?",
		},
		{
			name: "age_outside_table",
			text: "Let's evaluate this.",
			age:  40,
			want: "Let's evaluate this.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.AdjustLanguage(tc.text, tc.age); got != tc.want {
				t.Fatalf("AdjustLanguage(%q, %d)=%q, want %q", tc.text, tc.age, got, tc.want)
			}
		})
	}
}

func TestSplitRespectsLimit(t *testing.T) {
	text := strings.Repeat("word ", 33) + "end."
	got := splitLongSentences(text, 10)
	for _, s := range strings.SplitAfter(got, ".") {
		if n := len(strings.Fields(s)); n > 10 {
			t.Fatalf("sentence %q has %d words", s, n)
		}
	}
}

func TestSafeguardingResponse(t *testing.T) {
	a := newAdjuster(t)
	cases := []struct {
		age  int
		want string
	}{
		{7, "trusted adult about this"},
		{12, "like a teacher, parent, or counselor"},
		{15, "Your wellbeing is important"},
	}
	for _, tc := range cases {
		if got := a.SafeguardingResponse(tc.age); !strings.Contains(got, tc.want) {
			t.Fatalf("SafeguardingResponse(%d)=%q, want it to contain %q", tc.age, got, tc.want)
		}
	}
}

func TestOffenseRisks(t *testing.T) {
	a := newAdjuster(t)
	if got := a.OffenseRisks("Good job! Keep going.", 12); len(got) != 1 {
		t.Fatalf("expected condescension risk for age 12, got %v", got)
	}
	if got := a.OffenseRisks("Good job! Keep going.", 7); len(got) != 0 {
		t.Fatalf("praise is fine for age 7, got %v", got)
	}
	if got := a.OffenseRisks("Let's analyze it.", 6); len(got) != 1 {
		t.Fatalf("expected vocabulary risk for age 6, got %v", got)
	}
}
