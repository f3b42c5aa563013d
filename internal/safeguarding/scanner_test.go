package safeguarding

import "testing"

func TestScan(t *testing.T) {
	s := NewScanner()
	cases := []struct {
		name string
		text string
		age  int
		want Result
	}{
		{name: "empty", text: "", age: 12, want: None()},
		{name: "whitespace", text: "   \n\t", age: 12, want: None()},
		{name: "benign", text: "Can you help me with fractions?", age: 12, want: None()},
		{name: "sexual_high_any_age", text: "he touched me and said not to tell", age: 17, want: Result{true, 4, CategorySexual}},
		{name: "sexual_high_case_insensitive", text: "It was SEXUAL ABUSE", age: 9, want: Result{true, 4, CategorySexual}},
		{name: "moderate_young", text: "I feel uncomfortable around him", age: 8, want: Result{true, 3, CategorySexual}},
		{name: "moderate_preteen", text: "I am scared of my uncle", age: 12, want: Result{true, 3, CategorySexual}},
		{name: "moderate_fifteen", text: "I feel uncomfortable around him", age: 15, want: Result{true, 3, CategorySexual}},
		{name: "moderate_sixteen", text: "I feel uncomfortable around him", age: 16, want: Result{true, 2, CategorySexual}},
		{name: "immediate_threat", text: "I'm going to kill him tonight after school", age: 14, want: Result{true, 4, CategoryViolence}},
		{name: "timed_threat", text: "tomorrow I will attack them", age: 18, want: Result{true, 4, CategoryViolence}},
		{name: "severe_intent", text: "I want to hurt him", age: 14, want: Result{true, 3, CategoryViolence}},
		{name: "severe_hate", text: "I hate him and want him dead", age: 14, want: Result{true, 3, CategoryViolence}},
		{name: "word_boundary", text: "the game unmade meaning", age: 12, want: None()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Scan(tc.text, tc.age); got != tc.want {
				t.Fatalf("Scan(%q, %d)=%+v, want %+v", tc.text, tc.age, got, tc.want)
			}
		})
	}
}

func TestModerateSeverityByAge(t *testing.T) {
	s := NewScanner()
	for age := 3; age < 10; age++ {
		if got := s.Scan("I feel uncomfortable", age).Severity; got != 3 {
			t.Fatalf("age %d severity=%d, want 3", age, got)
		}
	}
	for age := 16; age <= 25; age++ {
		if got := s.Scan("I feel uncomfortable", age).Severity; got != 2 {
			t.Fatalf("age %d severity=%d, want 2", age, got)
		}
	}
}

func TestImmediateThreatIgnoresAge(t *testing.T) {
	s := NewScanner()
	for age := 3; age <= 25; age++ {
		if got := s.Scan("I have a plan to get back at them", age).Severity; got != 4 {
			t.Fatalf("age %d severity=%d, want 4", age, got)
		}
	}
}

func TestSexualDetectorRunsBeforeViolence(t *testing.T) {
	got := NewScanner().Scan("he touched me and I want to hurt him", 14)
	if got.Category != CategorySexual || got.Severity != 4 {
		t.Fatalf("got %+v, want sexual severity 4", got)
	}
}

func TestNeglectDetectorIsOptIn(t *testing.T) {
	text := "I haven't eaten since yesterday"
	if got := NewScanner().Scan(text, 10); got.Detected {
		t.Fatalf("default scanner detected %+v", got)
	}
	got := NewScanner(WithNeglectDetector()).Scan(text, 10)
	if got != (Result{true, 3, CategoryNeglect}) {
		t.Fatalf("neglect scan=%+v", got)
	}
}

func TestAgeThreshold(t *testing.T) {
	cases := []struct{ age, want int }{{5, 10}, {9, 10}, {10, 13}, {12, 13}, {13, 16}, {30, 16}}
	for _, tc := range cases {
		if got := AgeThreshold(tc.age); got != tc.want {
			t.Fatalf("AgeThreshold(%d)=%d, want %d", tc.age, got, tc.want)
		}
	}
}
