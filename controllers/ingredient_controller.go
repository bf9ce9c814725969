package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/models"
	"github.com/minhanh-dev/restaurant-pos-api/services"
)

// CreateIngredientRequest represents the request body for creating an ingredient
type CreateIngredientRequest struct {
	Name      string  `json:"name" binding:"required"`
	Unit      string  `json:"unit" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"gte=0"`
	Threshold float64 `json:"threshold" binding:"gte=0"`
}

// CreateIngredient handles POST /api/v1/ingredients
func CreateIngredient(c *gin.Context) {
	var req CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	ingredient := models.Ingredient{
		Name:      req.Name,
		Unit:      req.Unit,
		Quantity:  req.Quantity,
		Threshold: req.Threshold,
	}
	if err := db.Create(&ingredient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create ingredient",
			},
		})
		return
	}

	ingredient.Status = ingredient.StockStatus()
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    ingredient,
	})
}

// ListIngredients handles GET /api/v1/ingredients
func ListIngredients(c *gin.Context) {
	db := config.GetDB()
	page, limit, offset := parsePagination(c)

	var total int64
	if err := db.Model(&models.Ingredient{}).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count ingredients",
			},
		})
		return
	}

	var ingredients []models.Ingredient
	if err := db.Order("name ASC").Offset(offset).Limit(limit).Find(&ingredients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list ingredients",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       ingredients,
		"pagination": paginationBlock(page, limit, total),
	})
}

// UpdateIngredientRequest represents mutable stock attributes
type UpdateIngredientRequest struct {
	Name      string   `json:"name"`
	Unit      string   `json:"unit"`
	Quantity  *float64 `json:"quantity" binding:"omitempty,gte=0"`
	Threshold *float64 `json:"threshold" binding:"omitempty,gte=0"`
}

// UpdateIngredient handles PUT /api/v1/ingredients/:id
func UpdateIngredient(c *gin.Context) {
	var req UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var ingredient models.Ingredient
	if err := db.First(&ingredient, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INGREDIENT_NOT_FOUND",
				"message": "Ingredient not found",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Unit != "" {
		updates["unit"] = req.Unit
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.Threshold != nil {
		updates["threshold"] = *req.Threshold
	}
	if len(updates) > 0 {
		if err := db.Model(&ingredient).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update ingredient",
				},
			})
			return
		}
	}

	ingredient.Status = ingredient.StockStatus()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    ingredient,
	})
}

// DeleteIngredient handles DELETE /api/v1/ingredients/:id - soft delete
func DeleteIngredient(c *gin.Context) {
	var req DeleteTableRequest
	_ = c.ShouldBindJSON(&req)

	db := config.GetDB()
	var ingredient models.Ingredient
	if err := db.First(&ingredient, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INGREDIENT_NOT_FOUND",
				"message": "Ingredient not found",
			},
		})
		return
	}

	if err := db.Model(&ingredient).Update("deleted_by", req.DeletedBy).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete ingredient",
			},
		})
		return
	}
	if err := db.Delete(&ingredient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete ingredient",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Ingredient deleted",
	})
}

// ConsumeIngredientsRequest is a transactional stock deduction batch
type ConsumeIngredientsRequest struct {
	Items []services.IngredientConsumption `json:"items" binding:"required,min=1,dive"`
}

// ConsumeIngredients handles POST /api/v1/ingredients/consume. The batch
// succeeds or fails as a unit; failures list every short ingredient.
func ConsumeIngredients(c *gin.Context) {
	var req ConsumeIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	if err := services.ConsumeIngredients(db, req.Items); err != nil {
		var short *services.ErrInsufficientStock
		if errors.As(err, &short) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INSUFFICIENT_STOCK",
					"message": short.Error(),
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to consume ingredients",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Stock deducted",
	})
}

// RecipeItemRequest is one required ingredient quantity
type RecipeItemRequest struct {
	IngredientID uint    `json:"ingredient_id" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
}

// UpsertRecipeRequest replaces a menu item's recipe
type UpsertRecipeRequest struct {
	MenuItemID uint                `json:"menu_item_id" binding:"required"`
	Items      []RecipeItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpsertRecipe handles PUT /api/v1/recipes - creates or replaces the
// recipe for a menu item
func UpsertRecipe(c *gin.Context) {
	var req UpsertRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	var menuItem models.MenuItem
	if err := db.First(&menuItem, req.MenuItemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MENU_ITEM_NOT_FOUND",
				"message": "Menu item not found",
			},
		})
		return
	}

	var recipe models.Recipe
	err := db.Where("menu_item_id = ?", req.MenuItemID).First(&recipe).Error
	if err != nil {
		recipe = models.Recipe{MenuItemID: req.MenuItemID}
		if err := db.Create(&recipe).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to create recipe",
				},
			})
			return
		}
	} else {
		// Replace the existing lines wholesale
		if err := db.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to replace recipe",
				},
			})
			return
		}
	}

	for _, line := range req.Items {
		item := models.RecipeItem{
			RecipeID:     recipe.ID,
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity,
		}
		if err := db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to save recipe items",
				},
			})
			return
		}
	}

	if err := db.Preload("Items.Ingredient").First(&recipe, recipe.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load recipe",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    recipe,
	})
}

// GetRecipe handles GET /api/v1/recipes/:menuItemId
func GetRecipe(c *gin.Context) {
	db := config.GetDB()

	var recipe models.Recipe
	err := db.Preload("Items.Ingredient").
		Where("menu_item_id = ?", c.Param("menuItemId")).
		First(&recipe).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RECIPE_NOT_FOUND",
				"message": "Recipe not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    recipe,
	})
}
