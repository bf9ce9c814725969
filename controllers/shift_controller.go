package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/models"
)

// CreateShiftRequest represents the request body for creating a shift
type CreateShiftRequest struct {
	Name      string    `json:"name" binding:"required"`
	Date      time.Time `json:"date" binding:"required"`
	StartTime string    `json:"start_time" binding:"required"`
	EndTime   string    `json:"end_time" binding:"required"`
}

// CreateShift handles POST /api/v1/shifts
func CreateShift(c *gin.Context) {
	var req CreateShiftRequest
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
	shift := models.Shift{
		Name:      req.Name,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := db.Create(&shift).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create shift",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    shift,
	})
}

// ListShifts handles GET /api/v1/shifts
func ListShifts(c *gin.Context) {
	db := config.GetDB()
	page, limit, offset := parsePagination(c)

	query := db.Model(&models.Shift{})
	if date := c.Query("date"); date != "" {
		if parsed, err := time.Parse("2006-01-02", date); err == nil {
			query = query.Where("date >= ? AND date < ?", parsed, parsed.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count shifts",
			},
		})
		return
	}

	var shifts []models.Shift
	if err := query.Order("date DESC").Offset(offset).Limit(limit).Find(&shifts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list shifts",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       shifts,
		"pagination": paginationBlock(page, limit, total),
	})
}

// CheckInRequest assigns an employee to a shift and records arrival
type CheckInRequest struct {
	ShiftID uint `json:"shift_id" binding:"required"`
	UserID  uint `json:"user_id" binding:"required"`
}

// CheckIn handles POST /api/v1/shifts/check-in
func CheckIn(c *gin.Context) {
	var req CheckInRequest
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

	var shift models.Shift
	if err := db.First(&shift, req.ShiftID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SHIFT_NOT_FOUND",
				"message": "Shift not found",
			},
		})
		return
	}

	// One attendance row per employee per shift
	var existing models.Attendance
	if err := db.Where("shift_id = ? AND user_id = ?", req.ShiftID, req.UserID).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ALREADY_CHECKED_IN",
				"message": "Employee already checked in for this shift",
			},
		})
		return
	}

	now := time.Now()
	attendance := models.Attendance{
		ShiftID: req.ShiftID,
		UserID:  req.UserID,
		CheckIn: &now,
	}
	if err := db.Create(&attendance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check in",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    attendance,
	})
}

// CheckOutRequest closes an open attendance record
type CheckOutRequest struct {
	ShiftID uint `json:"shift_id" binding:"required"`
	UserID  uint `json:"user_id" binding:"required"`
}

// CheckOut handles POST /api/v1/shifts/check-out
func CheckOut(c *gin.Context) {
	var req CheckOutRequest
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

	var attendance models.Attendance
	if err := db.Where("shift_id = ? AND user_id = ?", req.ShiftID, req.UserID).First(&attendance).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ATTENDANCE_NOT_FOUND",
				"message": "No check-in found for this shift",
			},
		})
		return
	}

	if attendance.CheckOut != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ALREADY_CHECKED_OUT",
				"message": "Employee already checked out of this shift",
			},
		})
		return
	}

	now := time.Now()
	if err := db.Model(&attendance).Update("check_out", now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check out",
			},
		})
		return
	}
	attendance.CheckOut = &now

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    attendance,
	})
}
