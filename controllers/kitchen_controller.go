package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/models"
)

// GetKitchenQueue handles GET /api/v1/kitchen/queue
// Returns active orders that still have dishes for the kitchen to work on,
// oldest first so cooks see the longest-waiting orders at the top.
func GetKitchenQueue(c *gin.Context) {
	db := config.GetDB()

	var orders []models.Order
	if err := db.Preload("Items").
		Where("status NOT IN ?", []string{models.OrderPaid, models.OrderCancelled}).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load kitchen queue",
			},
		})
		return
	}

	queue := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if hasActiveItems(order) {
			queue = append(queue, order)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    queue,
	})
}

// hasActiveItems reports whether any dish on the order still needs kitchen work.
func hasActiveItems(order models.Order) bool {
	for _, item := range order.Items {
		switch item.Status {
		case models.ItemReady, models.ItemServed, models.ItemSoldOut:
			continue
		default:
			return true
		}
	}
	return false
}
