package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

func testClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("redis ping: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestUsageStoreSlidingWindow(t *testing.T) {
	rdb := testClient(t)
	log, _ := logger.NewObserved()
	store := NewUsageStore(rdb, log, time.Hour)
	store.prefix = "coach:test:" + t.Name()

	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()
	studentID := "stu-usage"
	t.Cleanup(func() { _ = rdb.Del(ctx, store.key(studentID, "Minecraft")).Err() })

	for _, at := range []time.Time{now.Add(-2 * time.Hour), now.Add(-30 * time.Minute), now.Add(-time.Minute)} {
		store.now = func() time.Time { return at }
		if err := store.RecordUsage(ctx, studentID, "Minecraft"); err != nil {
			t.Fatalf("RecordUsage: %v", err)
		}
	}
	store.now = func() time.Time { return now }
	n, err := store.RecentUsageCount(ctx, studentID, "minecraft")
	if err != nil {
		t.Fatalf("RecentUsageCount: %v", err)
	}
	if n != 2 {
		t.Fatalf("RecentUsageCount=%d, want 2", n)
	}
}

func TestUsageStoreKeyNormalizesLabel(t *testing.T) {
	log, _ := logger.NewObserved()
	s := NewUsageStore(nil, log, 0)
	if s.window != DefaultUsageWindow {
		t.Fatalf("window=%v, want default", s.window)
	}
	if got, want := s.key("stu-1", " Among Us "), "coach:usage:stu-1:among us"; got != want {
		t.Fatalf("key=%q, want %q", got, want)
	}
}
