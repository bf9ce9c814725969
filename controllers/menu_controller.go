package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/models"
	"github.com/minhanh-dev/restaurant-pos-api/services"
)

// CreateMenuItemRequest represents the request body for creating a menu item
type CreateMenuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" binding:"required,gte=0"`
}

// CreateMenuItem handles POST /api/v1/menu
func CreateMenuItem(c *gin.Context) {
	var req CreateMenuItemRequest
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
	item := models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Status:      models.MenuItemAvailable,
	}
	if err := db.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create menu item",
			},
		})
		return
	}

	services.Publish(services.EventMenuUpdated, map[string]interface{}{
		"menuItemId": item.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    item,
	})
}

// ListMenuItems handles GET /api/v1/menu
func ListMenuItems(c *gin.Context) {
	db := config.GetDB()
	page, limit, offset := parsePagination(c)

	query := db.Model(&models.MenuItem{})
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count menu items",
			},
		})
		return
	}

	var items []models.MenuItem
	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list menu items",
			},
		})
		return
	}

	for i := range items {
		attachImageURL(&items[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       items,
		"pagination": paginationBlock(page, limit, total),
	})
}

// GetMenuItem handles GET /api/v1/menu/:id
func GetMenuItem(c *gin.Context) {
	db := config.GetDB()

	var item models.MenuItem
	if err := db.Preload("Recipe.Items.Ingredient").First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MENU_ITEM_NOT_FOUND",
				"message": "Menu item not found",
			},
		})
		return
	}

	attachImageURL(&item)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// UpdateMenuItemRequest represents mutable menu item attributes
type UpdateMenuItemRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
}

// UpdateMenuItem handles PUT /api/v1/menu/:id
func UpdateMenuItem(c *gin.Context) {
	var req UpdateMenuItemRequest
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
	var item models.MenuItem
	if err := db.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MENU_ITEM_NOT_FOUND",
				"message": "Menu item not found",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}

	if len(updates) > 0 {
		if err := db.Model(&item).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update menu item",
				},
			})
			return
		}
		services.Publish(services.EventMenuUpdated, map[string]interface{}{
			"menuItemId": item.ID,
		})
	}

	attachImageURL(&item)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// DeleteMenuItem handles DELETE /api/v1/menu/:id - soft delete
func DeleteMenuItem(c *gin.Context) {
	var req DeleteTableRequest
	_ = c.ShouldBindJSON(&req)

	db := config.GetDB()
	var item models.MenuItem
	if err := db.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MENU_ITEM_NOT_FOUND",
				"message": "Menu item not found",
			},
		})
		return
	}

	if err := db.Model(&item).Update("deleted_by", req.DeletedBy).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete menu item",
			},
		})
		return
	}
	if err := db.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete menu item",
			},
		})
		return
	}

	services.Publish(services.EventMenuUpdated, map[string]interface{}{
		"menuItemId": item.ID,
		"deleted":    true,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Menu item deleted",
	})
}

// UploadMenuItemImage handles POST /api/v1/menu/:id/image - multipart
// image upload stored in S3
func UploadMenuItemImage(c *gin.Context) {
	db := config.GetDB()

	var item models.MenuItem
	if err := db.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MENU_ITEM_NOT_FOUND",
				"message": "Menu item not found",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "An image file is required",
			},
		})
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "IMAGE_SERVICE_UNAVAILABLE",
				"message": "Image storage is not configured",
			},
		})
		return
	}

	s3Key, err := imageService.UploadImage(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	// Replace any previous image
	oldKey := item.ImageS3Key
	if err := db.Model(&item).Update("image_s3_key", s3Key).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save image reference",
			},
		})
		return
	}
	if oldKey != nil {
		if err := imageService.DeleteImage(*oldKey); err != nil {
			log.Printf("Failed to delete previous menu image %s: %v", *oldKey, err)
		}
	}

	item.ImageS3Key = &s3Key
	attachImageURL(&item)

	services.Publish(services.EventMenuUpdated, map[string]interface{}{
		"menuItemId": item.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// RefreshMenuItemAvailability handles POST /api/v1/menu/:id/refresh-availability -
// recomputes one item's availability from its recipe and stock
func RefreshMenuItemAvailability(c *gin.Context) {
	db := config.GetDB()

	var item models.MenuItem
	if err := db.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MENU_ITEM_NOT_FOUND",
				"message": "Menu item not found",
			},
		})
		return
	}

	status, changed, err := services.RefreshMenuItemAvailability(db, &item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to refresh availability",
			},
		})
		return
	}

	if changed {
		services.Publish(services.EventMenuUpdated, map[string]interface{}{
			"menuItemId": item.ID,
			"status":     status,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":      item.ID,
			"status":  status,
			"changed": changed,
		},
	})
}

// RefreshAllAvailability handles POST /api/v1/menu/refresh-availability -
// recomputes availability for every menu item
func RefreshAllAvailability(c *gin.Context) {
	db := config.GetDB()

	changed, err := services.RefreshAllMenuItemAvailability(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to refresh availability",
			},
		})
		return
	}

	if changed > 0 {
		services.Publish(services.EventMenuUpdated, map[string]interface{}{
			"changed": changed,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"changed": changed},
	})
}

// attachImageURL fills the computed presigned URL when an image exists
// and the image service is configured
func attachImageURL(item *models.MenuItem) {
	if item.ImageS3Key == nil {
		return
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	url, err := imageService.GetImageURL(*item.ImageS3Key)
	if err != nil {
		log.Printf("Failed to generate image URL for menu item %d: %v", item.ID, err)
		return
	}
	if url != "" {
		item.ImageURL = &url
	}
}
