package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
)

// SeedVideo inserts a video owned by userID with the given status, created at.
func SeedVideo(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, status studio.Status, createdAt time.Time) *studio.Video {
	tb.Helper()
	v := &studio.Video{
		ID:        uuid.New(),
		UserID:    userID,
		Prompt:    "a lighthouse at dusk",
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed video: %v", err)
	}
	return v
}

func PtrString(v string) *string { return &v }

func PtrInt(v int) *int { return &v }
