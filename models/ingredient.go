package models

import (
	"time"

	"gorm.io/gorm"
)

// Ingredient stock statuses, derived from quantity versus threshold
const (
	IngredientAvailable  = "available"
	IngredientLowStock   = "low_stock"
	IngredientOutOfStock = "out_of_stock"
)

// Ingredient represents a stock-tracked raw material
type Ingredient struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Unit      string         `gorm:"not null" json:"unit"` // kg, g, l, ml, pcs...
	Quantity  float64        `gorm:"not null;default:0" json:"quantity"`
	Threshold float64        `gorm:"not null;default:0" json:"threshold"` // low-stock warning level
	Status    string         `gorm:"-" json:"status"`                     // computed field
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy *uint          `json:"-"`
}

// TableName specifies the table name for the Ingredient model
func (Ingredient) TableName() string {
	return "ingredients"
}

// StockStatus derives the stock status from quantity and threshold.
func (i *Ingredient) StockStatus() string {
	switch {
	case i.Quantity <= 0:
		return IngredientOutOfStock
	case i.Quantity <= i.Threshold:
		return IngredientLowStock
	default:
		return IngredientAvailable
	}
}

// AfterFind fills the computed status after every query.
func (i *Ingredient) AfterFind(tx *gorm.DB) error {
	i.Status = i.StockStatus()
	return nil
}
