package logger

import (
	"strings"
	"testing"
)

func TestMessageBodiesNeverLogged(t *testing.T) {
	log, logs := NewObserved()
	log.Warn("safeguarding flag persisted", "message", "someone touched me", "severity", 4)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if got := fields["message"]; got != "[REDACTED]" {
		t.Fatalf("message field=%v, want [REDACTED]", got)
	}
	if got := fields["severity"]; got != int64(4) {
		t.Fatalf("severity field=%v, want 4", got)
	}
}

func TestStudentIDHashed(t *testing.T) {
	log, logs := NewObserved()
	log.With("student_id", "stu-42").Info("processed")

	fields := logs.All()[0].ContextMap()
	got, _ := fields["student_id"].(string)
	if !strings.HasPrefix(got, "hash:") {
		t.Fatalf("student_id=%q, want hashed value", got)
	}
	if strings.Contains(got, "stu-42") {
		t.Fatalf("student_id leaked raw value: %q", got)
	}
}
