package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

func TestPostRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer s3cret" {
			t.Errorf("Authorization=%q, want bearer secret", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body["severity"] != float64(3) {
			t.Errorf("severity=%v, want 3", body["severity"])
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	log, _ := logger.NewObserved()
	c, err := New(log, Config{URL: srv.URL, Secret: "s3cret", Timeout: time.Second, MaxRetries: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Post(context.Background(), map[string]any{"severity": 3}); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Fatalf("calls=%d, want 2", n)
	}
}

func TestPostClientErrorNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	log, _ := logger.NewObserved()
	c, _ := New(log, Config{URL: srv.URL, MaxRetries: 3})
	if err := c.Post(context.Background(), map[string]any{}); err == nil {
		t.Fatalf("Post: expected error on 400")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("calls=%d, want 1", n)
	}
}

func TestNewRequiresURL(t *testing.T) {
	log, _ := logger.NewObserved()
	if _, err := New(log, Config{URL: "  "}); err == nil {
		t.Fatalf("New with blank url: expected error")
	}
}
