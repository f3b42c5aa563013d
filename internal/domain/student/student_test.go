package student

import "testing"

func TestStatusForSeverity(t *testing.T) {
	cases := []struct {
		severity int
		want     SafeguardingStatus
	}{
		{0, StatusClear},
		{1, StatusMonitoring},
		{2, StatusMonitoring},
		{3, StatusEscalated},
		{4, StatusEscalated},
	}
	for _, tc := range cases {
		if got := StatusForSeverity(tc.severity); got != tc.want {
			t.Fatalf("StatusForSeverity(%d)=%q, want %q", tc.severity, got, tc.want)
		}
	}
}

func TestStatusRankOrdering(t *testing.T) {
	order := []SafeguardingStatus{StatusClear, StatusMonitoring, StatusEscalated, StatusActiveSupport}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Fatalf("%q should rank below %q", order[i-1], order[i])
		}
	}
	if SafeguardingStatus("bogus").Rank() != 0 {
		t.Fatalf("unknown status should rank as clear")
	}
}
