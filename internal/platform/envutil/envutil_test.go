package envutil

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	cases := []struct {
		name string
		val  string
		want time.Duration
	}{
		{name: "unset", val: "", want: time.Minute},
		{name: "go_duration", val: "90s", want: 90 * time.Second},
		{name: "bare_seconds", val: "30", want: 30 * time.Second},
		{name: "garbage", val: "soon", want: time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ENVUTIL_TEST_DURATION", tc.val)
			if got := Duration("ENVUTIL_TEST_DURATION", time.Minute); got != tc.want {
				t.Fatalf("Duration(%q)=%v, want %v", tc.val, got, tc.want)
			}
		})
	}
}

func TestList(t *testing.T) {
	t.Setenv("ENVUTIL_TEST_LIST", " a@x.org, ,b@x.org ")
	got := List("ENVUTIL_TEST_LIST")
	if len(got) != 2 || got[0] != "a@x.org" || got[1] != "b@x.org" {
		t.Fatalf("List=%v, want [a@x.org b@x.org]", got)
	}
}
