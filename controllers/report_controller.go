package controllers

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/models"
)

// DailyRevenue is one day's slice of the revenue report
type DailyRevenue struct {
	Date       string  `json:"date"`
	Revenue    float64 `json:"revenue"`
	OrderCount int64   `json:"order_count"`
}

// GetRevenueReport handles GET /api/v1/reports/revenue?from=YYYY-MM-DD&to=YYYY-MM-DD
// Revenue counts paid orders only, using their final amounts.
func GetRevenueReport(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	db := config.GetDB()

	var orders []models.Order
	if err := db.
		Where("status = ? AND paid_at >= ? AND paid_at < ?", models.OrderPaid, from, to).
		Order("paid_at ASC").
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load revenue data",
			},
		})
		return
	}

	total := 0.0
	byDay := make(map[string]*DailyRevenue)
	for _, order := range orders {
		total += order.FinalAmount
		if order.PaidAt == nil {
			continue
		}
		day := order.PaidAt.Format("2006-01-02")
		entry, found := byDay[day]
		if !found {
			entry = &DailyRevenue{Date: day}
			byDay[day] = entry
		}
		entry.Revenue += order.FinalAmount
		entry.OrderCount++
	}

	// Emit days in order, including empty ones inside the range
	daily := make([]DailyRevenue, 0)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		if entry, found := byDay[day]; found {
			daily = append(daily, *entry)
		} else {
			daily = append(daily, DailyRevenue{Date: day})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"from":          from.Format("2006-01-02"),
			"to":            to.AddDate(0, 0, -1).Format("2006-01-02"),
			"total_revenue": total,
			"order_count":   len(orders),
			"daily":         daily,
		},
	})
}

// TopSellingItem aggregates sold quantity per menu item
type TopSellingItem struct {
	MenuItemID *uint   `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Revenue    float64 `json:"revenue"`
}

// GetTopSellingItems handles GET /api/v1/reports/top-items?from&to&limit
// Counts served and still-listed items on paid orders in the range.
func GetTopSellingItems(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	db := config.GetDB()

	var orders []models.Order
	if err := db.Preload("Items").
		Where("status = ? AND paid_at >= ? AND paid_at < ?", models.OrderPaid, from, to).
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load sales data",
			},
		})
		return
	}

	type key struct {
		id   uint
		name string
	}
	totals := make(map[key]*TopSellingItem)
	for _, order := range orders {
		for _, item := range order.Items {
			if item.Status == models.ItemSoldOut {
				continue
			}
			k := key{name: item.Name}
			if item.MenuItemID != nil {
				k.id = *item.MenuItemID
			}
			entry, found := totals[k]
			if !found {
				entry = &TopSellingItem{MenuItemID: item.MenuItemID, Name: item.Name}
				totals[k] = entry
			}
			entry.Quantity += item.Quantity
			entry.Revenue += item.Price * float64(item.Quantity)
		}
	}

	items := make([]TopSellingItem, 0, len(totals))
	for _, entry := range totals {
		items = append(items, *entry)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Quantity != items[j].Quantity {
			return items[i].Quantity > items[j].Quantity
		}
		return items[i].Name < items[j].Name
	})
	if len(items) > limit {
		items = items[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}

// parseDateRange reads the from/to query parameters. The returned range is
// half-open: [from, to+1day). Defaults to the last 30 days.
func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from := now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
	to := now.Truncate(24 * time.Hour).AddDate(0, 0, 1)

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid from date, expected YYYY-MM-DD",
				},
			})
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid to date, expected YYYY-MM-DD",
				},
			})
			return time.Time{}, time.Time{}, false
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "to date must not be before from date",
			},
		})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
