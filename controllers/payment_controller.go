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

// CreatePaymentURLRequest represents the request body for a VNPay redirect
type CreatePaymentURLRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// CreatePaymentURL handles POST /api/v1/payment/create-payment-url
// Builds a VNPay redirect URL for the order's final amount.
func CreatePaymentURL(c *gin.Context) {
	var req CreatePaymentURLRequest
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
	var order models.Order
	if err := db.Preload("Items").First(&order, req.OrderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if order.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_FINALIZED",
				"message": "Order is already paid or cancelled",
			},
		})
		return
	}

	vnpay := services.NewVNPayService(config.GetConfig())
	paymentURL := vnpay.BuildPaymentURL(
		order.OrderNumber,
		order.FinalAmount,
		"Thanh toan don hang "+order.OrderNumber,
		c.ClientIP(),
		time.Now(),
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"payment_url": paymentURL,
			"order_id":    order.ID,
			"amount":      order.FinalAmount,
		},
	})
}

// VNPayReturn handles GET /api/v1/payment/vnpay-return
// Verifies the gateway signature and marks the referenced order paid when
// the response code is "00".
func VNPayReturn(c *gin.Context) {
	query := c.Request.URL.Query()

	vnpay := services.NewVNPayService(config.GetConfig())
	if !vnpay.VerifyReturn(query) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_SIGNATURE",
				"message": "Payment signature verification failed",
			},
		})
		return
	}

	txnRef := query.Get("vnp_TxnRef")
	responseCode := query.Get("vnp_ResponseCode")

	db := config.GetDB()
	var order models.Order
	if err := db.Preload("Items").Where("order_number = ?", txnRef).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found for transaction reference",
			},
		})
		return
	}

	if responseCode != "00" {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"order_id":      order.ID,
				"paid":          false,
				"response_code": responseCode,
			},
		})
		return
	}

	if order.Status == models.OrderPaid {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"order_id": order.ID,
				"paid":     true,
			},
		})
		return
	}

	if order.Status == models.OrderCancelled {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_CANCELLED",
				"message": "Order was cancelled before payment completed",
			},
		})
		return
	}

	now := time.Now()
	if err := db.Model(&order).Updates(map[string]interface{}{
		"status":         models.OrderPaid,
		"payment_method": models.PaymentVNPay,
		"paid_amount":    order.FinalAmount,
		"change":         0,
		"paid_at":        now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record payment",
			},
		})
		return
	}
	order.Status = models.OrderPaid
	order.PaymentMethod = models.PaymentVNPay
	order.PaidAmount = order.FinalAmount
	order.Change = 0
	order.PaidAt = &now

	// A used voucher counts against its cap at payment time
	if order.VoucherCode != "" {
		if err := db.Model(&models.Voucher{}).
			Where("code = ?", order.VoucherCode).
			Update("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update voucher usage",
				},
			})
			return
		}
	}

	if !releaseTableFor(c, db, &order) {
		return
	}

	logActivity(nil, "order.pay", "order", order.ID, "vnpay")
	services.Publish(services.EventOrderPaid, map[string]interface{}{
		"orderId":     order.ID,
		"tableNumber": order.TableNumber,
		"method":      models.PaymentVNPay,
		"finalAmount": order.FinalAmount,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order_id": order.ID,
			"paid":     true,
		},
	})
}
