package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/studio-tracker/internal/domain/studio"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// =========================
		// Studio
		// =========================
		&studio.Video{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return EnsureStudioIndexes(db)
}

// EnsureStudioIndexes adds the listing index used by the newest-first job list.
func EnsureStudioIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_studio_video_user_created
		ON studio_video (user_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_studio_video_user_created: %w", err)
	}
	return nil
}
