package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

const DefaultUsageWindow = 24 * time.Hour

// UsageStore counts how often each interest was worked into a reply, over a sliding
// window. One sorted set per student and interest, scored by epoch millis.
type UsageStore struct {
	rdb    *goredis.Client
	log    *logger.Logger
	window time.Duration
	prefix string
	now    func() time.Time
}

func NewUsageStore(rdb *goredis.Client, baseLog *logger.Logger, window time.Duration) *UsageStore {
	if window <= 0 {
		window = DefaultUsageWindow
	}
	return &UsageStore{
		rdb:    rdb,
		log:    baseLog.With("service", "InterestUsageStore"),
		window: window,
		prefix: "coach:usage",
		now:    time.Now,
	}
}

func (s *UsageStore) key(studentID, label string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, studentID, strings.ToLower(strings.TrimSpace(label)))
}

func (s *UsageStore) RecordUsage(ctx context.Context, studentID, label string) error {
	if studentID == "" || label == "" {
		return nil
	}
	now := s.now()
	key := s.key(studentID, label)
	cutoff := strconv.FormatInt(now.Add(-s.window).UnixMilli(), 10)

	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixMilli()), Member: uuid.NewString()})
	pipe.ZRemRangeByScore(ctx, key, "-inf", "("+cutoff)
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record interest usage: %w", err)
	}
	return nil
}

func (s *UsageStore) RecentUsageCount(ctx context.Context, studentID, label string) (int, error) {
	if studentID == "" || label == "" {
		return 0, nil
	}
	minScore := strconv.FormatInt(s.now().Add(-s.window).UnixMilli(), 10)
	n, err := s.rdb.ZCount(ctx, s.key(studentID, label), minScore, "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("count interest usage: %w", err)
	}
	return int(n), nil
}
