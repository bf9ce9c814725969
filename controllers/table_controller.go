package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/models"
	"github.com/minhanh-dev/restaurant-pos-api/services"
	"gorm.io/gorm"
)

// CreateTableRequest represents the request body for creating a table
type CreateTableRequest struct {
	TableNumber int    `json:"table_number" binding:"required,gt=0"`
	Capacity    int    `json:"capacity" binding:"required,gt=0"`
	Location    string `json:"location"`
}

// CreateTable handles POST /api/v1/tables
func CreateTable(c *gin.Context) {
	var req CreateTableRequest
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

	// Table numbers are unique among non-deleted tables; a soft-deleted
	// table's number may be reused
	var count int64
	if err := db.Model(&models.Table{}).Where("table_number = ?", req.TableNumber).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check table number",
			},
		})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TABLE_NUMBER_EXISTS",
				"message": "A table with this number already exists",
			},
		})
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Location:    req.Location,
		Status:      models.TableAvailable,
	}
	if err := db.Create(&table).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create table",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    table,
	})
}

// ListTables handles GET /api/v1/tables. Reservation expiry is evaluated
// lazily on every read.
func ListTables(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Table{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if location := c.Query("location"); location != "" {
		query = query.Where("location = ?", location)
	}

	var tables []models.Table
	if err := query.Order("table_number ASC").Find(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list tables",
			},
		})
		return
	}

	now := time.Now()
	for i := range tables {
		if _, err := services.ExpireReservationIfDue(db, &tables[i], now); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to refresh table reservation",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tables,
	})
}

// GetTable handles GET /api/v1/tables/:id
func GetTable(c *gin.Context) {
	db := config.GetDB()

	table, ok := loadTable(c, db)
	if !ok {
		return
	}

	if err := db.Preload("CurrentOrder.Items").First(table, table.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load table details",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    table,
	})
}

// UpdateTableRequest represents mutable table attributes
type UpdateTableRequest struct {
	Capacity int    `json:"capacity" binding:"omitempty,gt=0"`
	Location string `json:"location"`
}

// UpdateTable handles PUT /api/v1/tables/:id
func UpdateTable(c *gin.Context) {
	var req UpdateTableRequest
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
	table, ok := loadTable(c, db)
	if !ok {
		return
	}

	updates := make(map[string]interface{})
	if req.Capacity > 0 {
		updates["capacity"] = req.Capacity
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if len(updates) > 0 {
		if err := db.Model(table).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update table",
				},
			})
			return
		}
	}

	services.Publish(services.EventTableUpdated, map[string]interface{}{
		"tableNumber": table.TableNumber,
		"tableId":     table.ID,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    table,
	})
}

// DeleteTableRequest identifies who removed the table
type DeleteTableRequest struct {
	DeletedBy *uint `json:"deleted_by"`
}

// DeleteTable handles DELETE /api/v1/tables/:id - soft delete
func DeleteTable(c *gin.Context) {
	var req DeleteTableRequest
	// Body is optional on delete
	_ = c.ShouldBindJSON(&req)

	db := config.GetDB()
	table, ok := loadTable(c, db)
	if !ok {
		return
	}

	if table.CurrentOrderID != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TABLE_OCCUPIED",
				"message": "Cannot delete a table with an active order",
			},
		})
		return
	}

	if err := db.Model(table).Update("deleted_by", req.DeletedBy).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete table",
			},
		})
		return
	}
	if err := db.Delete(table).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete table",
			},
		})
		return
	}

	logActivity(req.DeletedBy, "table.delete", "table", table.ID, "")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Table deleted",
	})
}

// ReserveTableRequest holds reservation contact details
type ReserveTableRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}

// ReserveTable handles POST /api/v1/tables/:id/reserve. The hold expires
// automatically after the configured window unless the table is claimed.
func ReserveTable(c *gin.Context) {
	var req ReserveTableRequest
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
	table, ok := loadTable(c, db)
	if !ok {
		return
	}

	if table.Status != models.TableAvailable {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TABLE_NOT_AVAILABLE",
				"message": "Only an available table can be reserved",
			},
		})
		return
	}

	ttl := time.Duration(config.GetConfig().ReservationTTLMinutes) * time.Minute
	now := time.Now()
	expiresAt := now.Add(ttl)
	if err := db.Model(table).Updates(map[string]interface{}{
		"status":                 models.TableReserved,
		"reservation_name":       req.Name,
		"reservation_phone":      req.Phone,
		"reserved_at":            now,
		"reservation_expires_at": expiresAt,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to reserve table",
			},
		})
		return
	}
	table.Status = models.TableReserved
	table.ReservationName = req.Name
	table.ReservationPhone = req.Phone
	table.ReservedAt = &now
	table.ReservationExpiresAt = &expiresAt

	services.Publish(services.EventTableReserved, map[string]interface{}{
		"tableNumber": table.TableNumber,
		"tableId":     table.ID,
		"expiresAt":   expiresAt,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    table,
	})
}

// OccupyTable handles POST /api/v1/tables/:id/occupy - claims a reserved
// or available table
func OccupyTable(c *gin.Context) {
	db := config.GetDB()
	table, ok := loadTable(c, db)
	if !ok {
		return
	}

	if table.Status == models.TableOccupied {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TABLE_OCCUPIED",
				"message": "Table is already occupied",
			},
		})
		return
	}

	if err := db.Model(table).Updates(map[string]interface{}{
		"status":                 models.TableOccupied,
		"reservation_name":       "",
		"reservation_phone":      "",
		"reserved_at":            nil,
		"reservation_expires_at": nil,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to occupy table",
			},
		})
		return
	}
	table.Status = models.TableOccupied
	table.ClearReservation()

	services.Publish(services.EventTableUpdated, map[string]interface{}{
		"tableNumber": table.TableNumber,
		"tableId":     table.ID,
		"status":      models.TableOccupied,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    table,
	})
}

// ReleaseTable handles POST /api/v1/tables/:id/release - manual return to
// available (rejected while an active order exists)
func ReleaseTable(c *gin.Context) {
	db := config.GetDB()
	table, ok := loadTable(c, db)
	if !ok {
		return
	}

	if table.CurrentOrderID != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TABLE_HAS_ORDER",
				"message": "Settle or cancel the active order before releasing the table",
			},
		})
		return
	}

	if err := db.Model(table).Updates(map[string]interface{}{
		"status":                 models.TableAvailable,
		"reservation_name":       "",
		"reservation_phone":      "",
		"reserved_at":            nil,
		"reservation_expires_at": nil,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to release table",
			},
		})
		return
	}
	table.Status = models.TableAvailable
	table.ClearReservation()

	services.Publish(services.EventTableUpdated, map[string]interface{}{
		"tableNumber": table.TableNumber,
		"tableId":     table.ID,
		"status":      models.TableAvailable,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    table,
	})
}

// loadTable fetches a table by id, applying lazy reservation expiry.
// Returns false when a response was already written.
func loadTable(c *gin.Context, db *gorm.DB) (*models.Table, bool) {
	var table models.Table
	if err := db.First(&table, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TABLE_NOT_FOUND",
				"message": "Table not found",
			},
		})
		return nil, false
	}

	if _, err := services.ExpireReservationIfDue(db, &table, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to refresh table reservation",
			},
		})
		return nil, false
	}

	return &table, true
}
