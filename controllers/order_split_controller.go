package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/models"
	"github.com/minhanh-dev/restaurant-pos-api/services"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SplitGroupItem references one source line by menu item id
type SplitGroupItem struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity"`
}

// SplitOrderRequest divides a source order into at least two new bills
type SplitOrderRequest struct {
	Groups      [][]SplitGroupItem `json:"groups" binding:"required,min=2"`
	RequestedBy *uint              `json:"requested_by"`
}

// SplitOrder handles POST /api/v1/orders/:id/split. Validation is
// all-or-nothing: any group item missing from the source, or any set of
// groups asking for more quantity than a source line holds, fails the
// whole call before anything is created.
func SplitOrder(c *gin.Context) {
	var req SplitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A split needs at least two destination groups",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	source, ok := loadMutableOrder(c, db)
	if !ok {
		return
	}

	// Index the source lines by menu item id and track how much of each
	// line is still available for distribution
	sourceItems := make(map[uint]*models.OrderItem)
	remaining := make(map[uint]int)
	for i := range source.Items {
		if source.Items[i].MenuItemID != nil {
			sourceItems[*source.Items[i].MenuItemID] = &source.Items[i]
			remaining[*source.Items[i].MenuItemID] = source.Items[i].Quantity
		}
	}

	// Plan every group before creating anything. A line may be spread
	// across groups, but the distributed quantities can never exceed
	// what the source order holds.
	type splitLine struct {
		src      *models.OrderItem
		quantity int
	}
	plan := make([][]splitLine, 0, len(req.Groups))
	for _, group := range req.Groups {
		if len(group) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Split groups cannot be empty",
				},
			})
			return
		}
		lines := make([]splitLine, 0, len(group))
		for _, ref := range group {
			src, found := sourceItems[ref.MenuItemID]
			if !found {
				c.JSON(http.StatusNotFound, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "ITEM_NOT_FOUND",
						"message": fmt.Sprintf("Menu item %d is not part of the source order", ref.MenuItemID),
					},
				})
				return
			}
			quantity := ref.Quantity
			if quantity < 1 {
				// No explicit quantity takes whatever the line has left
				quantity = remaining[ref.MenuItemID]
			}
			if quantity < 1 || quantity > remaining[ref.MenuItemID] {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "VALIDATION_ERROR",
						"message": fmt.Sprintf("Menu item %d has only %d left to distribute", ref.MenuItemID, remaining[ref.MenuItemID]),
					},
				})
				return
			}
			remaining[ref.MenuItemID] -= quantity
			lines = append(lines, splitLine{src: src, quantity: quantity})
		}
		plan = append(plan, lines)
	}

	var created []models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, lines := range plan {
			newOrder := models.Order{
				OrderNumber: uuid.NewString(),
				TableNumber: source.TableNumber,
				Status:      models.OrderPending,
				StaffID:     source.StaffID,
			}
			for _, line := range lines {
				newOrder.Items = append(newOrder.Items, models.OrderItem{
					MenuItemID: line.src.MenuItemID,
					Name:       line.src.Name,
					Image:      line.src.Image,
					Price:      line.src.Price,
					Quantity:   line.quantity,
					Status:     line.src.Status,
					Note:       line.src.Note,
				})
			}
			newOrder.RecomputeTotals()
			if err := tx.Create(&newOrder).Error; err != nil {
				return err
			}
			created = append(created, newOrder)
		}

		ids := make(datatypes.JSONSlice[uint], 0, len(created))
		for _, o := range created {
			ids = append(ids, o.ID)
		}
		return tx.Model(source).Updates(map[string]interface{}{
			"status":        models.OrderCancelled,
			"cancel_reason": "Split into separate bills",
			"split_to":      ids,
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to split order",
			},
		})
		return
	}

	// Keep the table coupled to one of the live bills
	if err := db.Model(&models.Table{}).
		Where("current_order_id = ?", source.ID).
		Update("current_order_id", created[0].ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update table",
			},
		})
		return
	}

	logActivity(req.RequestedBy, "order.split", "order", source.ID,
		fmt.Sprintf("into %d bills", len(created)))
	services.Publish(services.EventOrderSplit, map[string]interface{}{
		"tableNumber": source.TableNumber,
		"sourceId":    source.ID,
		"orderIds":    orderIDs(created),
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    created,
	})
}

// MergeOrdersRequest combines several tables' active orders into one bill
type MergeOrdersRequest struct {
	OrderIDs    []uint `json:"order_ids" binding:"required,min=2"`
	RequestedBy *uint  `json:"requested_by"`
}

// MergeOrders handles POST /api/v1/orders/merge. The merged bill lives on
// the first order's table and lists the others as shared tables.
func MergeOrders(c *gin.Context) {
	var req MergeOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A merge needs at least two source orders",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()

	var sources []models.Order
	if err := db.Preload("Items").Where("id IN ?", req.OrderIDs).Find(&sources).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}
	if len(sources) != len(req.OrderIDs) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "One or more source orders were not found",
			},
		})
		return
	}
	for _, source := range sources {
		if source.IsTerminal() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ORDER_FINALIZED",
					"message": fmt.Sprintf("Order %d is already %s and cannot be merged", source.ID, source.Status),
				},
			})
			return
		}
	}

	merged := models.Order{
		OrderNumber: uuid.NewString(),
		TableNumber: sources[0].TableNumber,
		Status:      models.OrderPending,
		StaffID:     sources[0].StaffID,
		MergedFrom:  datatypes.JSONSlice[uint](req.OrderIDs),
	}
	for _, source := range sources {
		if source.TableNumber != merged.TableNumber {
			merged.SharedTables = append(merged.SharedTables, source.TableNumber)
		}
		for _, item := range source.Items {
			merged.Items = append(merged.Items, models.OrderItem{
				MenuItemID: item.MenuItemID,
				Name:       item.Name,
				Image:      item.Image,
				Price:      item.Price,
				Quantity:   item.Quantity,
				Status:     item.Status,
				Note:       item.Note,
			})
		}
	}
	merged.RecomputeTotals()

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&merged).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Order{}).
			Where("id IN ?", req.OrderIDs).
			Updates(map[string]interface{}{
				"status":        models.OrderCancelled,
				"cancel_reason": fmt.Sprintf("Merged into order %d", merged.ID),
			}).Error; err != nil {
			return err
		}
		// All covered tables stay occupied, pointing at the merged bill
		return tx.Model(&models.Table{}).
			Where("current_order_id IN ?", req.OrderIDs).
			Update("current_order_id", merged.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to merge orders",
			},
		})
		return
	}

	merged.KitchenStatus = merged.DeriveKitchenStatus()
	logActivity(req.RequestedBy, "order.merge", "order", merged.ID,
		fmt.Sprintf("from %d orders", len(sources)))
	services.Publish(services.EventOrderMerged, map[string]interface{}{
		"tableNumber": merged.TableNumber,
		"orderId":     merged.ID,
		"mergedFrom":  req.OrderIDs,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    merged,
	})
}

// orderIDs collects ids for event payloads
func orderIDs(orders []models.Order) []uint {
	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}
