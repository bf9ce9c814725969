package models

import (
	"time"

	"gorm.io/gorm"
)

// Recipe maps a menu item to the ingredients it consumes
type Recipe struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	MenuItemID uint           `gorm:"not null;uniqueIndex" json:"menu_item_id"`
	Items      []RecipeItem   `gorm:"foreignKey:RecipeID" json:"items"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy  *uint          `json:"-"`
}

// TableName specifies the table name for the Recipe model
func (Recipe) TableName() string {
	return "recipes"
}

// RecipeItem is one required ingredient quantity within a recipe
type RecipeItem struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	RecipeID     uint        `gorm:"not null;index" json:"recipe_id"`
	IngredientID uint        `gorm:"not null" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	Quantity     float64     `gorm:"not null;check:quantity > 0" json:"quantity"`
}

// TableName specifies the table name for the RecipeItem model
func (RecipeItem) TableName() string {
	return "recipe_items"
}
