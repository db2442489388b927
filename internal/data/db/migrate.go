package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/learnpath-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return EnsureTopicIndexes(db)
}

// EnsureTopicIndexes adds the composite listing index used by topic-by-course queries.
func EnsureTopicIndexes(db *gorm.DB) error {
	stmt := `CREATE INDEX IF NOT EXISTS idx_topic_course_created ON topic (course_id, created_at DESC)`
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("ensure topic indexes: %w", err)
	}
	return nil
}
