package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedVoucher(db *gorm.DB, mutate func(*models.Voucher)) models.Voucher {
	voucher := models.Voucher{
		Code:          "SUMMER10",
		Type:          models.VoucherPercentage,
		Value:         10,
		MinOrderValue: 100000,
		MaxDiscount:   50000,
		StartDate:     time.Now().Add(-24 * time.Hour),
		EndDate:       time.Now().Add(24 * time.Hour),
		UsageLimit:    0,
		Active:        true,
	}
	if mutate != nil {
		mutate(&voucher)
	}
	db.Create(&voucher)
	return voucher
}

func TestCreateVoucher(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.POST("/api/v1/vouchers", CreateVoucher)

	t.Run("Create voucher successfully", func(t *testing.T) {
		w := performRequest(router, "POST", "/api/v1/vouchers", map[string]interface{}{
			"code":            "  tet2027 ",
			"type":            "percentage",
			"value":           15,
			"min_order_value": 200000,
			"max_discount":    30000,
			"start_date":      time.Now().Format(time.RFC3339),
			"end_date":        time.Now().Add(30 * 24 * time.Hour).Format(time.RFC3339),
			"usage_limit":     100,
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var voucher models.Voucher
		assert.NoError(t, db.Where("code = ?", "TET2027").First(&voucher).Error)
		assert.True(t, voucher.Active)
	})

	t.Run("Fail with duplicate code", func(t *testing.T) {
		w := performRequest(router, "POST", "/api/v1/vouchers", map[string]interface{}{
			"code":       "TET2027",
			"type":       "fixed",
			"value":      10000,
			"start_date": time.Now().Format(time.RFC3339),
			"end_date":   time.Now().Add(time.Hour).Format(time.RFC3339),
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assertErrorCode(t, w, "VOUCHER_EXISTS")
	})

	t.Run("Fail with end date before start date", func(t *testing.T) {
		w := performRequest(router, "POST", "/api/v1/vouchers", map[string]interface{}{
			"code":       "BACKWARDS",
			"type":       "fixed",
			"value":      10000,
			"start_date": time.Now().Format(time.RFC3339),
			"end_date":   time.Now().Add(-time.Hour).Format(time.RFC3339),
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, w, "VALIDATION_ERROR")
	})

	t.Run("Fail with unknown type", func(t *testing.T) {
		w := performRequest(router, "POST", "/api/v1/vouchers", map[string]interface{}{
			"code":       "WEIRD",
			"type":       "bogo",
			"value":      1,
			"start_date": time.Now().Format(time.RFC3339),
			"end_date":   time.Now().Add(time.Hour).Format(time.RFC3339),
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, w, "VALIDATION_ERROR")
	})
}

func TestValidateVoucher(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*models.Voucher)
		orderValue float64
		wantStatus int
		wantCode   string
		wantAmount float64
	}{
		{
			name:       "Valid percentage voucher",
			orderValue: 300000,
			wantStatus: http.StatusOK,
			wantAmount: 30000,
		},
		{
			name:       "Percentage discount capped at max",
			orderValue: 800000,
			wantStatus: http.StatusOK,
			wantAmount: 50000,
		},
		{
			name: "Fixed voucher never exceeds order value",
			mutate: func(v *models.Voucher) {
				v.Type = models.VoucherFixed
				v.Value = 500000
				v.MinOrderValue = 0
				v.MaxDiscount = 0
			},
			orderValue: 150000,
			wantStatus: http.StatusOK,
			wantAmount: 150000,
		},
		{
			name:       "Order value below minimum",
			orderValue: 50000,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VOUCHER_INVALID",
		},
		{
			name: "Inactive voucher",
			mutate: func(v *models.Voucher) {
				v.Active = false
			},
			orderValue: 300000,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VOUCHER_INVALID",
		},
		{
			name: "Not yet valid",
			mutate: func(v *models.Voucher) {
				v.StartDate = time.Now().Add(time.Hour)
			},
			orderValue: 300000,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VOUCHER_INVALID",
		},
		{
			name: "Expired",
			mutate: func(v *models.Voucher) {
				v.EndDate = time.Now().Add(-time.Hour)
			},
			orderValue: 300000,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VOUCHER_INVALID",
		},
		{
			name: "Usage limit reached",
			mutate: func(v *models.Voucher) {
				v.UsageLimit = 5
				v.UsedCount = 5
			},
			orderValue: 300000,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VOUCHER_INVALID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			config.SetDB(db)
			seedVoucher(db, tt.mutate)

			router := setupTestRouter()
			router.POST("/api/v1/vouchers/validate", ValidateVoucher)

			w := performRequest(router, "POST", "/api/v1/vouchers/validate", map[string]interface{}{
				"code":        "summer10",
				"order_value": tt.orderValue,
			})

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assertErrorCode(t, w, tt.wantCode)
				return
			}

			response := parseResponse(t, w)
			data := response["data"].(map[string]interface{})
			assert.InDelta(t, tt.wantAmount, data["discount"].(float64), 0.001)
		})
	}

	t.Run("Unknown code", func(t *testing.T) {
		db := setupTestDB(t)
		config.SetDB(db)

		router := setupTestRouter()
		router.POST("/api/v1/vouchers/validate", ValidateVoucher)

		w := performRequest(router, "POST", "/api/v1/vouchers/validate", map[string]interface{}{
			"code":        "NOPE",
			"order_value": 100000,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assertErrorCode(t, w, "VOUCHER_NOT_FOUND")
	})
}

func TestGetVoucher(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	voucher := seedVoucher(db, nil)

	router := setupTestRouter()
	router.GET("/api/v1/vouchers/:id", GetVoucher)

	t.Run("Get voucher by id", func(t *testing.T) {
		w := performRequest(router, "GET", fmt.Sprintf("/api/v1/vouchers/%d", voucher.ID), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := parseResponse(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "SUMMER10", data["code"])
	})

	t.Run("Fail with unknown voucher", func(t *testing.T) {
		w := performRequest(router, "GET", "/api/v1/vouchers/9999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assertErrorCode(t, w, "VOUCHER_NOT_FOUND")
	})
}

func TestDeleteVoucher(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	voucher := seedVoucher(db, nil)

	router := setupTestRouter()
	router.DELETE("/api/v1/vouchers/:id", DeleteVoucher)

	t.Run("Soft deletes and records who", func(t *testing.T) {
		w := performRequest(router, "DELETE", fmt.Sprintf("/api/v1/vouchers/%d", voucher.ID), map[string]interface{}{
			"deleted_by": 7,
		})

		assert.Equal(t, http.StatusOK, w.Code)

		// Gone from normal queries but kept in the table
		var count int64
		db.Model(&models.Voucher{}).Count(&count)
		assert.Equal(t, int64(0), count)

		var kept models.Voucher
		assert.NoError(t, db.Unscoped().First(&kept, voucher.ID).Error)
		assert.True(t, kept.DeletedAt.Valid)
		assert.Equal(t, uint(7), *kept.DeletedBy)
	})

	t.Run("Fail with unknown voucher", func(t *testing.T) {
		w := performRequest(router, "DELETE", "/api/v1/vouchers/9999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assertErrorCode(t, w, "VOUCHER_NOT_FOUND")
	})
}

func TestUpdateVoucher(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	voucher := seedVoucher(db, nil)

	router := setupTestRouter()
	router.PUT("/api/v1/vouchers/:id", UpdateVoucher)

	t.Run("Deactivate voucher", func(t *testing.T) {
		w := performRequest(router, "PUT", "/api/v1/vouchers/1", map[string]interface{}{
			"active": false,
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var updated models.Voucher
		db.First(&updated, voucher.ID)
		assert.False(t, updated.Active)
	})

	t.Run("Fail with unknown voucher", func(t *testing.T) {
		w := performRequest(router, "PUT", "/api/v1/vouchers/9999", map[string]interface{}{
			"active": true,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assertErrorCode(t, w, "VOUCHER_NOT_FOUND")
	})
}
