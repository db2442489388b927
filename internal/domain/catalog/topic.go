package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Topic is a gradeable unit of course content.
type Topic struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"not null;column:description" json:"description"`
	CourseID    uuid.UUID `gorm:"type:uuid;index;not null;column:course_id" json:"courseId"`

	CreatedAt time.Time      `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Topic) TableName() string { return "topic" }

func (t *Topic) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
