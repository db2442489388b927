package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null;column:title" json:"title"`
	Description string    `gorm:"not null;column:description" json:"description"`
	Price       float64   `gorm:"not null;default:0;column:price" json:"price"`
	ImageURL    string    `gorm:"column:image_url" json:"imageUrl,omitempty"`
	CreatorID   uuid.UUID `gorm:"type:uuid;index;not null;column:creator_id" json:"creatorId"`

	CreatedAt time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
