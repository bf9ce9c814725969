package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/models"
)

// CreateVoucherRequest represents the request body for creating a voucher
type CreateVoucherRequest struct {
	Code          string    `json:"code" binding:"required"`
	Type          string    `json:"type" binding:"required,oneof=percentage fixed"`
	Value         float64   `json:"value" binding:"required,gt=0"`
	MinOrderValue float64   `json:"min_order_value" binding:"gte=0"`
	MaxDiscount   float64   `json:"max_discount" binding:"gte=0"`
	StartDate     time.Time `json:"start_date" binding:"required"`
	EndDate       time.Time `json:"end_date" binding:"required"`
	UsageLimit    int       `json:"usage_limit" binding:"gte=0"`
}

// CreateVoucher handles POST /api/v1/vouchers
func CreateVoucher(c *gin.Context) {
	var req CreateVoucherRequest
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

	if !req.EndDate.After(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "End date must be after start date",
			},
		})
		return
	}

	db := config.GetDB()
	voucher := models.Voucher{
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		Type:          req.Type,
		Value:         req.Value,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		UsageLimit:    req.UsageLimit,
		Active:        true,
	}
	if err := db.Create(&voucher).Error; err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VOUCHER_EXISTS",
					"message": "A voucher with this code already exists",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create voucher",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    voucher,
	})
}

// ListVouchers handles GET /api/v1/vouchers
func ListVouchers(c *gin.Context) {
	db := config.GetDB()
	page, limit, offset := parsePagination(c)

	query := db.Model(&models.Voucher{})
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count vouchers",
			},
		})
		return
	}

	var vouchers []models.Voucher
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&vouchers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list vouchers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       vouchers,
		"pagination": paginationBlock(page, limit, total),
	})
}

// GetVoucher handles GET /api/v1/vouchers/:id
func GetVoucher(c *gin.Context) {
	db := config.GetDB()
	var voucher models.Voucher
	if err := db.First(&voucher, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VOUCHER_NOT_FOUND",
				"message": "Voucher not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    voucher,
	})
}

// UpdateVoucherRequest toggles or edits a voucher
type UpdateVoucherRequest struct {
	Active      *bool      `json:"active"`
	MaxDiscount *float64   `json:"max_discount" binding:"omitempty,gte=0"`
	UsageLimit  *int       `json:"usage_limit" binding:"omitempty,gte=0"`
	EndDate     *time.Time `json:"end_date"`
}

// UpdateVoucher handles PUT /api/v1/vouchers/:id
func UpdateVoucher(c *gin.Context) {
	var req UpdateVoucherRequest
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
	var voucher models.Voucher
	if err := db.First(&voucher, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VOUCHER_NOT_FOUND",
				"message": "Voucher not found",
			},
		})
		return
	}

	updates := make(map[string]interface{})
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.MaxDiscount != nil {
		updates["max_discount"] = *req.MaxDiscount
	}
	if req.UsageLimit != nil {
		updates["usage_limit"] = *req.UsageLimit
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if len(updates) > 0 {
		if err := db.Model(&voucher).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update voucher",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    voucher,
	})
}

// DeleteVoucher handles DELETE /api/v1/vouchers/:id - soft delete so
// historical orders keep resolving the code
func DeleteVoucher(c *gin.Context) {
	var req DeleteTableRequest
	_ = c.ShouldBindJSON(&req)

	db := config.GetDB()
	var voucher models.Voucher
	if err := db.First(&voucher, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VOUCHER_NOT_FOUND",
				"message": "Voucher not found",
			},
		})
		return
	}

	if err := db.Model(&voucher).Update("deleted_by", req.DeletedBy).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete voucher",
			},
		})
		return
	}
	if err := db.Delete(&voucher).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete voucher",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Voucher deleted",
	})
}

// ValidateVoucherRequest checks a code against an order value
type ValidateVoucherRequest struct {
	Code       string  `json:"code" binding:"required"`
	OrderValue float64 `json:"order_value" binding:"required,gt=0"`
}

// ValidateVoucher handles POST /api/v1/vouchers/validate - dry-run
// validation returning the discount the voucher would grant
func ValidateVoucher(c *gin.Context) {
	var req ValidateVoucherRequest
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
	var voucher models.Voucher
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if err := db.Where("code = ?", code).First(&voucher).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VOUCHER_NOT_FOUND",
				"message": "Voucher not found",
			},
		})
		return
	}

	if reason := voucher.Validate(req.OrderValue, time.Now()); reason != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VOUCHER_INVALID",
				"message": reason,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"voucher":  voucher,
			"discount": voucher.DiscountFor(req.OrderValue),
		},
	})
}
