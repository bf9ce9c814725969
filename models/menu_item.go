package models

import (
	"time"

	"gorm.io/gorm"
)

// Menu item availability statuses
const (
	MenuItemAvailable = "available"
	MenuItemSoldOut   = "soldout"
)

// MenuItem represents a sellable dish or drink on the menu
type MenuItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	Category    string         `gorm:"index" json:"category"`
	Price       float64        `gorm:"not null;check:price >= 0" json:"price"`
	ImageS3Key  *string        `json:"image_s3_key"`                 // nullable, S3 key for uploaded image
	ImageURL    *string        `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for image
	Status      string         `gorm:"not null;default:'available'" json:"status"` // available, soldout
	Recipe      *Recipe        `gorm:"foreignKey:MenuItemID" json:"recipe,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy   *uint          `json:"-"`
}

// TableName specifies the table name for the MenuItem model
func (MenuItem) TableName() string {
	return "menu_items"
}
