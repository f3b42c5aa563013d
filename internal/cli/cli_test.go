package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/neurobridge-coach/internal/http/middleware"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestScanReportsBarrierAndReply(t *testing.T) {
	out, err := execute(t, "scan", "--age", "10", "I don't know")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	var report scanReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if report.Safeguarding.Detected {
		t.Fatalf("Detected=true, want false")
	}
	if report.TrustedAdult != "" {
		t.Fatalf("TrustedAdult=%q, want empty without a detection", report.TrustedAdult)
	}
	if len(report.Barriers) == 0 {
		t.Fatalf("expected a detected barrier")
	}
	if report.Intervention == nil || report.Reply == "" {
		t.Fatalf("intervention=%v reply=%q, want both set", report.Intervention, report.Reply)
	}
}

func TestScanShortCircuitsOnThreat(t *testing.T) {
	out, err := execute(t, "scan", "--age", "14", "I'm going to kill him tonight")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	var report scanReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Safeguarding.Severity != 4 {
		t.Fatalf("Severity=%d, want 4", report.Safeguarding.Severity)
	}
	if len(report.Barriers) != 0 || report.Intervention != nil {
		t.Fatalf("barriers=%v intervention=%v, want none after short circuit", report.Barriers, report.Intervention)
	}
	if !strings.Contains(report.TrustedAdult, "trusted adult") {
		t.Fatalf("TrustedAdult=%q, want the age 14 trusted adult line", report.TrustedAdult)
	}
}

func TestScanRejectsBadAge(t *testing.T) {
	if _, err := execute(t, "scan", "--age", "40", "hello"); err == nil {
		t.Fatalf("scan with age 40: expected error")
	}
}

func TestCatalogListsEmbeddedBarriers(t *testing.T) {
	out, err := execute(t, "catalog")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[0], "ID") {
		t.Fatalf("catalog output=%q, want header plus rows", out)
	}
}

func TestRewardIssueThenValidate(t *testing.T) {
	code, err := execute(t, "reward", "issue")
	if err != nil {
		t.Fatalf("reward issue: %v", err)
	}
	code = strings.TrimSpace(code)
	if !strings.HasPrefix(code, "GAME-") {
		t.Fatalf("code=%q, want GAME- prefix", code)
	}
	if _, err := execute(t, "reward", "validate", code); err != nil {
		t.Fatalf("reward validate %q: %v", code, err)
	}
	if _, err := execute(t, "reward", "validate", "GAME-1-X"); err == nil {
		t.Fatalf("reward validate stale code: expected error")
	}
}

func TestStaffTokenRequiresSecret(t *testing.T) {
	t.Setenv("STAFF_JWT_SECRET", "")
	if _, err := execute(t, "staff-token", "rev-1"); err == nil {
		t.Fatalf("staff-token without secret: expected error")
	}
}

func TestStaffTokenCarriesReviewer(t *testing.T) {
	t.Setenv("STAFF_JWT_SECRET", "test-secret")
	out, err := execute(t, "staff-token", "--ttl", "1h", "rev-1")
	if err != nil {
		t.Fatalf("staff-token: %v", err)
	}
	claims := &middleware.StaffClaims{}
	_, err = jwt.ParseWithClaims(strings.TrimSpace(out), claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "rev-1" || claims.Role != middleware.RoleStaff {
		t.Fatalf("claims=%+v, want staff rev-1", claims)
	}
}
