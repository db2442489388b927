package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Purchase struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchase_user_course,priority:1;column:user_id" json:"userId"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchase_user_course,priority:2;column:course_id" json:"courseId"`
	PurchasedAt time.Time `gorm:"not null;column:purchased_at" json:"purchasedAt"`
}

func (Purchase) TableName() string { return "purchase" }

func (p *Purchase) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PurchasedAt.IsZero() {
		p.PurchasedAt = time.Now().UTC()
	}
	return nil
}
