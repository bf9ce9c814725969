package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/models"
	"github.com/minhanh-dev/restaurant-pos-api/services"
)

// SalaryPeriodRequest identifies one employee's pay period
type SalaryPeriodRequest struct {
	UserID      uint    `json:"user_id" binding:"required"`
	Month       int     `json:"month" binding:"required,min=1,max=12"`
	Year        int     `json:"year" binding:"required"`
	Deductions  float64 `json:"deductions"`
	RequestedBy *uint   `json:"requested_by"`
}

// ComputeSalary handles GET /api/v1/salary/compute
// Returns a dry-run computation without persisting anything.
func ComputeSalary(c *gin.Context) {
	userID, err1 := strconv.ParseUint(c.Query("userId"), 10, 32)
	month, err2 := strconv.Atoi(c.Query("month"))
	year, err3 := strconv.Atoi(c.Query("year"))
	if err1 != nil || err2 != nil || err3 != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "userId, month and year query parameters are required",
			},
		})
		return
	}
	deductions, _ := strconv.ParseFloat(c.DefaultQuery("deductions", "0"), 64)

	comp, err := services.ComputeSalary(config.GetDB(), uint(userID), month, year, deductions)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "Failed to compute salary",
				"details": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    comp,
	})
}

// FinalizeSalary handles POST /api/v1/salary/finalize
// Persists an immutable salary snapshot for the period.
func FinalizeSalary(c *gin.Context) {
	var req SalaryPeriodRequest
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

	salaryLog, err := services.FinalizeSalary(config.GetDB(), req.UserID, req.Month, req.Year, req.Deductions)
	if err != nil {
		if errors.Is(err, services.ErrSalaryAlreadyFinalized) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SALARY_ALREADY_FINALIZED",
					"message": "Salary already finalized for this period",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to finalize salary",
				"details": err.Error(),
			},
		})
		return
	}

	logActivity(req.RequestedBy, "salary.finalize", "salary_log", salaryLog.ID, "")
	services.Publish(services.EventSalaryFinalized, map[string]interface{}{
		"salaryLogId": salaryLog.ID,
		"userId":      salaryLog.UserID,
		"month":       salaryLog.Month,
		"year":        salaryLog.Year,
		"total":       salaryLog.Total,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    salaryLog,
	})
}

// MarkSalaryPaid handles POST /api/v1/salary/:id/pay
func MarkSalaryPaid(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid salary log ID",
			},
		})
		return
	}

	var body struct {
		RequestedBy *uint `json:"requested_by"`
	}
	_ = c.ShouldBindJSON(&body)

	salaryLog, err := services.MarkSalaryPaid(config.GetDB(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrSalaryAlreadyPaid) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SALARY_ALREADY_PAID",
					"message": "Salary log is already paid",
				},
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SALARY_LOG_NOT_FOUND",
				"message": "Salary log not found",
			},
		})
		return
	}

	logActivity(body.RequestedBy, "salary.pay", "salary_log", salaryLog.ID, "")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    salaryLog,
	})
}

// ListSalaryLogs handles GET /api/v1/salary
func ListSalaryLogs(c *gin.Context) {
	db := config.GetDB()
	page, limit, offset := parsePagination(c)

	query := db.Model(&models.SalaryLog{})
	if month := c.Query("month"); month != "" {
		query = query.Where("month = ?", month)
	}
	if year := c.Query("year"); year != "" {
		query = query.Where("year = ?", year)
	}
	if userID := c.Query("userId"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count salary logs",
			},
		})
		return
	}

	var logs []models.SalaryLog
	if err := query.Preload("User").Order("year DESC, month DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list salary logs",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       logs,
		"pagination": paginationBlock(page, limit, total),
	})
}
