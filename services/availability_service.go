package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/minhanh-dev/restaurant-pos-api/models"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when a consumption batch cannot be
// satisfied. The message lists every short ingredient.
type ErrInsufficientStock struct {
	Short []string
}

func (e *ErrInsufficientStock) Error() string {
	return fmt.Sprintf("insufficient stock for: %s", strings.Join(e.Short, ", "))
}

// MenuItemAvailable computes whether a menu item can currently be made.
// An item without a recipe is always available. A recipe line pointing at
// a missing ingredient counts as unavailable (fail-closed).
func MenuItemAvailable(db *gorm.DB, menuItemID uint) (bool, error) {
	var recipe models.Recipe
	err := db.Preload("Items.Ingredient").Where("menu_item_id = ?", menuItemID).First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load recipe: %w", err)
	}

	for _, line := range recipe.Items {
		if line.Ingredient == nil {
			return false, nil
		}
		if line.Ingredient.Quantity < line.Quantity {
			return false, nil
		}
	}
	return true, nil
}

// RefreshMenuItemAvailability recomputes one menu item's status and
// persists it only when it changed. It returns the resulting status and
// whether a write happened.
func RefreshMenuItemAvailability(db *gorm.DB, item *models.MenuItem) (string, bool, error) {
	available, err := MenuItemAvailable(db, item.ID)
	if err != nil {
		return item.Status, false, err
	}

	status := models.MenuItemSoldOut
	if available {
		status = models.MenuItemAvailable
	}
	if status == item.Status {
		return status, false, nil
	}

	if err := db.Model(item).Update("status", status).Error; err != nil {
		return item.Status, false, fmt.Errorf("failed to update menu item status: %w", err)
	}
	item.Status = status
	return status, true, nil
}

// RefreshAllMenuItemAvailability recomputes availability for every
// non-deleted menu item and returns how many changed.
func RefreshAllMenuItemAvailability(db *gorm.DB) (int, error) {
	var items []models.MenuItem
	if err := db.Find(&items).Error; err != nil {
		return 0, fmt.Errorf("failed to load menu items: %w", err)
	}

	changed := 0
	for i := range items {
		_, didChange, err := RefreshMenuItemAvailability(db, &items[i])
		if err != nil {
			return changed, err
		}
		if didChange {
			changed++
		}
	}
	return changed, nil
}

// IngredientConsumption is one line of a consumption batch
type IngredientConsumption struct {
	IngredientID uint    `json:"ingredient_id" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
}

// ConsumeIngredients deducts a batch of ingredient quantities inside a
// single transaction. The whole batch aborts if any ingredient is
// missing or short, reporting every shortage at once.
func ConsumeIngredients(db *gorm.DB, batch []IngredientConsumption) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var short []string

		for _, line := range batch {
			var ingredient models.Ingredient
			if err := tx.First(&ingredient, line.IngredientID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					short = append(short, fmt.Sprintf("ingredient %d (not found)", line.IngredientID))
					continue
				}
				return fmt.Errorf("failed to load ingredient %d: %w", line.IngredientID, err)
			}

			if ingredient.Quantity < line.Quantity {
				short = append(short, fmt.Sprintf("%s (have %.2f, need %.2f)",
					ingredient.Name, ingredient.Quantity, line.Quantity))
				continue
			}

			// Guarded decrement; re-checks quantity at write time so a
			// concurrent deduction cannot drive stock negative.
			result := tx.Model(&models.Ingredient{}).
				Where("id = ? AND quantity >= ?", line.IngredientID, line.Quantity).
				Update("quantity", gorm.Expr("quantity - ?", line.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to deduct ingredient %d: %w", line.IngredientID, result.Error)
			}
			if result.RowsAffected == 0 {
				short = append(short, fmt.Sprintf("%s (concurrent deduction)", ingredient.Name))
			}
		}

		if len(short) > 0 {
			return &ErrInsufficientStock{Short: short}
		}
		return nil
	})
}

// ConsumeForMenuItem deducts the recipe quantities for a given menu item
// and quantity ordered. Items without a recipe consume nothing.
func ConsumeForMenuItem(db *gorm.DB, menuItemID uint, quantity int) error {
	var recipe models.Recipe
	err := db.Preload("Items").Where("menu_item_id = ?", menuItemID).First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load recipe: %w", err)
	}

	batch := make([]IngredientConsumption, 0, len(recipe.Items))
	for _, line := range recipe.Items {
		batch = append(batch, IngredientConsumption{
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity * float64(quantity),
		})
	}
	return ConsumeIngredients(db, batch)
}
