package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/models"
	"github.com/minhanh-dev/restaurant-pos-api/services"
	"gorm.io/gorm"
)

// CreateOrderItemRequest is one raw line item on order creation. Missing
// name/image/price are filled from the referenced menu item.
type CreateOrderItemRequest struct {
	MenuItemID *uint    `json:"menu_item_id"`
	Name       string   `json:"name"`
	Price      *float64 `json:"price"`
	Quantity   int      `json:"quantity"`
	Note       string   `json:"note"`
}

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	TableNumber int                      `json:"table_number" binding:"required"`
	StaffID     *uint                    `json:"staff_id"`
	Items       []CreateOrderItemRequest `json:"items" binding:"required,min=1"`
	TotalAmount *float64                 `json:"total_amount"` // explicit caller total overrides the computed subtotal
	VoucherCode string                   `json:"voucher_code"`
}

// CreateOrder handles POST /api/v1/orders - opens a tab for a table
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
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

	var table models.Table
	if err := db.Where("table_number = ?", req.TableNumber).First(&table).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TABLE_NOT_FOUND",
				"message": "Table not found",
			},
		})
		return
	}

	// Lazy reservation expiry before the occupancy check
	if _, err := services.ExpireReservationIfDue(db, &table, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to check table reservation",
			},
		})
		return
	}

	if table.CurrentOrderID != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TABLE_OCCUPIED",
				"message": "Table already has an active order",
			},
		})
		return
	}

	// Enrich raw items from the menu and build the snapshot lines
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, raw := range req.Items {
		item := models.OrderItem{
			MenuItemID: raw.MenuItemID,
			Name:       raw.Name,
			Quantity:   raw.Quantity,
			Note:       raw.Note,
			Status:     models.ItemPending,
		}
		if raw.Price != nil {
			item.Price = *raw.Price
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}

		if raw.MenuItemID != nil {
			var menuItem models.MenuItem
			if err := db.First(&menuItem, *raw.MenuItemID).Error; err == nil {
				if item.Name == "" {
					item.Name = menuItem.Name
				}
				if menuItem.ImageS3Key != nil {
					item.Image = *menuItem.ImageS3Key
				}
				if raw.Price == nil {
					item.Price = menuItem.Price
				}
			}
		}
		if item.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Each item needs a name or a valid menu item reference",
				},
			})
			return
		}
		items = append(items, item)
	}

	order := models.Order{
		OrderNumber: uuid.NewString(),
		TableNumber: req.TableNumber,
		Items:       items,
		Status:      models.OrderPending,
		StaffID:     req.StaffID,
	}
	order.RecomputeTotals()
	if req.TotalAmount != nil {
		order.TotalAmount = *req.TotalAmount
		order.FinalAmount = order.TotalAmount - order.Discount
	}

	// Optional voucher discount, validated against the computed subtotal
	if req.VoucherCode != "" {
		var voucher models.Voucher
		if err := db.Where("code = ?", req.VoucherCode).First(&voucher).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VOUCHER_NOT_FOUND",
					"message": "Voucher not found",
				},
			})
			return
		}
		if reason := voucher.Validate(order.TotalAmount, time.Now()); reason != "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VOUCHER_INVALID",
					"message": reason,
				},
			})
			return
		}
		order.VoucherCode = voucher.Code
		order.Discount = voucher.DiscountFor(order.TotalAmount)
		order.FinalAmount = order.TotalAmount - order.Discount
	}

	if err := db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	// Couple the table to its new active order
	if err := db.Model(&table).Updates(map[string]interface{}{
		"status":                 models.TableOccupied,
		"current_order_id":       order.ID,
		"reservation_name":       "",
		"reservation_phone":      "",
		"reserved_at":            nil,
		"reservation_expires_at": nil,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update table",
			},
		})
		return
	}

	order.KitchenStatus = order.DeriveKitchenStatus()
	logActivity(req.StaffID, "order.create", "order", order.ID, fmt.Sprintf("table %d", order.TableNumber))
	services.Publish(services.EventOrderCreated, map[string]interface{}{
		"tableNumber": order.TableNumber,
		"orderId":     order.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - lists orders with pagination
func ListOrders(c *gin.Context) {
	db := config.GetDB()
	page, limit, offset := parsePagination(c)

	query := db.Model(&models.Order{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if tableNumber := c.Query("tableNumber"); tableNumber != "" {
		query = query.Where("table_number = ?", tableNumber)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count orders",
			},
		})
		return
	}

	var orders []models.Order
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       orders,
		"pagination": paginationBlock(page, limit, total),
	})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	db := config.GetDB()

	var order models.Order
	err := db.Preload("Items").Preload("Staff").Preload("Cashier").
		First(&order, c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateItemStatusRequest carries the raw status spelling
type UpdateItemStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateItemStatus handles PUT /api/v1/orders/:id/items/:itemId/status
// Accepts Vietnamese and English synonym spellings case-insensitively.
func UpdateItemStatus(c *gin.Context) {
	var req UpdateItemStatusRequest
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

	status, ok := models.NormalizeItemStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": fmt.Sprintf("Unrecognized item status %q", req.Status),
			},
		})
		return
	}

	db := config.GetDB()
	order, item, ok := loadMutableOrderItem(c, db)
	if !ok {
		return
	}

	item.Status = status
	if err := db.Save(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update item status",
			},
		})
		return
	}

	// Totals must hold after any item mutation; a soldout item drops out
	order.RecomputeTotals()
	if err := db.Model(order).Updates(map[string]interface{}{
		"total_amount": order.TotalAmount,
		"discount":     order.Discount,
		"final_amount": order.FinalAmount,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order totals",
			},
		})
		return
	}

	order.KitchenStatus = order.DeriveKitchenStatus()
	services.Publish(services.EventOrderUpdated, map[string]interface{}{
		"tableNumber":   order.TableNumber,
		"orderId":       order.ID,
		"itemId":        item.ID,
		"itemStatus":    item.Status,
		"kitchenStatus": order.KitchenStatus,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CancelDishRequest is the kitchen-side unilateral cancel
type CancelDishRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelDish handles POST /api/v1/orders/:id/items/:itemId/cancel -
// kitchen drops a dish from the bill
func CancelDish(c *gin.Context) {
	var req CancelDishRequest
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
	order, item, ok := loadMutableOrderItem(c, db)
	if !ok {
		return
	}

	if item.Status == models.ItemReady || item.Status == models.ItemServed {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ITEM_ALREADY_READY",
				"message": "Cannot cancel a dish that is already done",
			},
		})
		return
	}

	item.Status = models.ItemSoldOut
	if item.Note != "" {
		item.Note += " | "
	}
	item.Note += "Cancelled: " + req.Reason
	if err := db.Save(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to cancel dish",
			},
		})
		return
	}

	order.RecomputeTotals()
	if err := db.Model(order).Updates(map[string]interface{}{
		"total_amount": order.TotalAmount,
		"discount":     order.Discount,
		"final_amount": order.FinalAmount,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order totals",
			},
		})
		return
	}

	order.KitchenStatus = order.DeriveKitchenStatus()
	services.Publish(services.EventDishCancelled, map[string]interface{}{
		"tableNumber": order.TableNumber,
		"orderId":     order.ID,
		"itemId":      item.ID,
		"reason":      req.Reason,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// RequestCancelDishRequest is the service-side cancel request, awaiting
// kitchen confirmation
type RequestCancelDishRequest struct {
	RequestedBy *uint  `json:"requested_by"`
	Reason      string `json:"reason" binding:"required"`
}

// RequestCancelDish handles POST /api/v1/orders/:id/items/:itemId/cancel-request
func RequestCancelDish(c *gin.Context) {
	var req RequestCancelDishRequest
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
	order, item, ok := loadMutableOrderItem(c, db)
	if !ok {
		return
	}

	switch item.Status {
	case models.ItemReady, models.ItemServed:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ITEM_ALREADY_READY",
				"message": "Cannot request cancellation of a dish that is already done",
			},
		})
		return
	case models.ItemSoldOut:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ITEM_ALREADY_CANCELLED",
				"message": "Dish is already cancelled",
			},
		})
		return
	case models.ItemCancelRequested:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CANCEL_ALREADY_REQUESTED",
				"message": "A cancellation request is already pending for this dish",
			},
		})
		return
	}

	now := time.Now()
	item.Status = models.ItemCancelRequested
	item.CancelRequestedBy = req.RequestedBy
	item.CancelRequestedAt = &now
	item.CancelRequestedReason = req.Reason
	if err := db.Save(item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to record cancellation request",
			},
		})
		return
	}

	services.Publish(services.EventCancelRequested, map[string]interface{}{
		"tableNumber": order.TableNumber,
		"orderId":     order.ID,
		"itemId":      item.ID,
		"reason":      req.Reason,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    item,
	})
}

// RequestTempCalculationRequest identifies the requesting staff member
type RequestTempCalculationRequest struct {
	RequestedBy *uint `json:"requested_by"`
}

// RequestTempCalculation handles POST /api/v1/orders/:id/temp-calculation -
// the customer asked for a provisional total
func RequestTempCalculation(c *gin.Context) {
	var req RequestTempCalculationRequest
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
	order, ok := loadMutableOrder(c, db)
	if !ok {
		return
	}

	now := time.Now()
	if err := db.Model(order).Updates(map[string]interface{}{
		"status":                 models.OrderTempCalculation,
		"temp_calc_requested_by": req.RequestedBy,
		"temp_calc_requested_at": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to request temp calculation",
			},
		})
		return
	}
	order.Status = models.OrderTempCalculation
	order.TempCalcRequestedBy = req.RequestedBy
	order.TempCalcRequestedAt = &now

	services.Publish(services.EventTempCalculation, map[string]interface{}{
		"tableNumber": order.TableNumber,
		"orderId":     order.ID,
		"finalAmount": order.FinalAmount,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ConfirmOrder handles POST /api/v1/orders/:id/confirm - the cashier
// validated the bill ahead of payment
func ConfirmOrder(c *gin.Context) {
	db := config.GetDB()
	order, ok := loadMutableOrder(c, db)
	if !ok {
		return
	}

	if err := db.Model(order).Update("status", models.OrderConfirmed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to confirm order",
			},
		})
		return
	}
	order.Status = models.OrderConfirmed

	services.Publish(services.EventOrderUpdated, map[string]interface{}{
		"tableNumber": order.TableNumber,
		"orderId":     order.ID,
		"status":      order.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// PayOrderRequest represents the payment of an order
type PayOrderRequest struct {
	PaymentMethod string  `json:"payment_method" binding:"required"`
	PaidAmount    float64 `json:"paid_amount" binding:"required,gt=0"`
	CashierID     *uint   `json:"cashier_id"`
}

// PayOrder handles POST /api/v1/orders/:id/payment - settles the bill and
// frees the table
func PayOrder(c *gin.Context) {
	var req PayOrderRequest
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
	order, ok := loadMutableOrder(c, db)
	if !ok {
		return
	}

	if req.PaidAmount < order.FinalAmount {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INSUFFICIENT_PAYMENT",
				"message": fmt.Sprintf("Paid amount %.0f is below the final amount %.0f", req.PaidAmount, order.FinalAmount),
			},
		})
		return
	}

	now := time.Now()
	change := req.PaidAmount - order.FinalAmount
	if err := db.Model(order).Updates(map[string]interface{}{
		"status":         models.OrderPaid,
		"payment_method": req.PaymentMethod,
		"paid_amount":    req.PaidAmount,
		"change":         change,
		"cashier_id":     req.CashierID,
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
	order.PaymentMethod = req.PaymentMethod
	order.PaidAmount = req.PaidAmount
	order.Change = change
	order.CashierID = req.CashierID
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

	if !releaseTableFor(c, db, order) {
		return
	}

	logActivity(req.CashierID, "order.pay", "order", order.ID,
		fmt.Sprintf("method %s, amount %.0f", req.PaymentMethod, req.PaidAmount))
	services.Publish(services.EventOrderPaid, map[string]interface{}{
		"tableNumber": order.TableNumber,
		"orderId":     order.ID,
		"finalAmount": order.FinalAmount,
		"change":      change,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CancelOrderRequest records why an invoice was cancelled
type CancelOrderRequest struct {
	Reason      string `json:"reason" binding:"required"`
	CancelledBy *uint  `json:"cancelled_by"`
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - voids an unpaid
// invoice and frees the table
func CancelOrder(c *gin.Context) {
	var req CancelOrderRequest
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
	if err := db.Preload("Items").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	if order.Status == models.OrderPaid {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_ALREADY_PAID",
				"message": "Cannot cancel a paid order",
			},
		})
		return
	}
	if order.Status == models.OrderCancelled {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_ALREADY_CANCELLED",
				"message": "Order is already cancelled",
			},
		})
		return
	}

	if !cancelOrderRecord(c, db, &order, req.Reason) {
		return
	}
	if !releaseTableFor(c, db, &order) {
		return
	}

	logActivity(req.CancelledBy, "order.cancel", "order", order.ID, req.Reason)
	services.Publish(services.EventOrderCancelled, map[string]interface{}{
		"tableNumber": order.TableNumber,
		"orderId":     order.ID,
		"reason":      req.Reason,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// loadMutableOrder fetches the order with items and rejects terminal
// (paid or cancelled) orders with a state-conflict error. Returns false
// when a response was already written.
func loadMutableOrder(c *gin.Context, db *gorm.DB) (*models.Order, bool) {
	var order models.Order
	if err := db.Preload("Items").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
		return nil, false
	}

	if order.IsTerminal() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_FINALIZED",
				"message": fmt.Sprintf("Order is already %s and cannot be modified", order.Status),
			},
		})
		return nil, false
	}

	return &order, true
}

// loadMutableOrderItem fetches a mutable order plus one of its items
func loadMutableOrderItem(c *gin.Context, db *gorm.DB) (*models.Order, *models.OrderItem, bool) {
	order, ok := loadMutableOrder(c, db)
	if !ok {
		return nil, nil, false
	}

	itemID := c.Param("itemId")
	for i := range order.Items {
		if fmt.Sprint(order.Items[i].ID) == itemID {
			return order, &order.Items[i], true
		}
	}

	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ITEM_NOT_FOUND",
			"message": "Order item not found",
		},
	})
	return nil, nil, false
}

// cancelOrderRecord marks an order cancelled with a reason. Returns
// false when a response was already written.
func cancelOrderRecord(c *gin.Context, db *gorm.DB, order *models.Order, reason string) bool {
	now := time.Now()
	if err := db.Model(order).Updates(map[string]interface{}{
		"status":        models.OrderCancelled,
		"cancel_reason": reason,
		"cancelled_at":  now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to cancel order",
			},
		})
		return false
	}
	order.Status = models.OrderCancelled
	order.CancelReason = reason
	order.CancelledAt = &now
	return true
}

// releaseTableFor frees the table currently coupled to an order, as a
// side effect of payment or cancellation. Tables pointing at a different
// order are left alone. Returns false when a response was written.
func releaseTableFor(c *gin.Context, db *gorm.DB, order *models.Order) bool {
	err := db.Model(&models.Table{}).
		Where("current_order_id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":           models.TableAvailable,
			"current_order_id": nil,
		}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to release table",
			},
		})
		return false
	}

	services.Publish(services.EventTableUpdated, map[string]interface{}{
		"tableNumber": order.TableNumber,
		"status":      models.TableAvailable,
	})
	return true
}
