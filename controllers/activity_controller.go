package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/models"
)

// logActivity appends a row to the audit trail. Failures are logged and
// swallowed; the audit trail never fails the underlying operation.
func logActivity(actorID *uint, action, entity string, entityID uint, detail string) {
	db := config.GetDB()
	entry := models.ActivityLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("Failed to write activity log (%s %s/%d): %v", action, entity, entityID, err)
	}
}

// ListActivities handles GET /api/v1/activities - lists the audit trail
func ListActivities(c *gin.Context) {
	db := config.GetDB()
	page, limit, offset := parsePagination(c)

	query := db.Model(&models.ActivityLog{})
	if entity := c.Query("entity"); entity != "" {
		query = query.Where("entity = ?", entity)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count activities",
			},
		})
		return
	}

	var activities []models.ActivityLog
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list activities",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       activities,
		"pagination": paginationBlock(page, limit, total),
	})
}
