package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-coach/internal/domain/student"
)

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID string, status types.SafeguardingStatus) *types.Profile {
	tb.Helper()
	p := &types.Profile{
		StudentID:          studentID,
		Age:                12,
		SafeguardingStatus: status,
		PlayBreakStage:     types.DefaultPlayBreakStage,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedInterest(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID, category, specific string, last time.Time) *types.Interest {
	tb.Helper()
	in := &types.Interest{
		StudentID:     studentID,
		Category:      category,
		Specific:      specific,
		Confidence:    0.8,
		LastMentioned: last,
		MentionCount:  1,
	}
	if err := tx.WithContext(ctx).Create(in).Error; err != nil {
		tb.Fatalf("seed interest: %v", err)
	}
	return in
}
