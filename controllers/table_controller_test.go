package controllers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/models"
	"github.com/minhanh-dev/restaurant-pos-api/services"
	"github.com/stretchr/testify/assert"
)

func TestCreateTable(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.POST("/tables", CreateTable)

	t.Run("Creates a table", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/tables", map[string]interface{}{
			"table_number": 1,
			"capacity":     4,
			"location":     "ground floor",
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		data := parseResponse(t, w)["data"].(map[string]interface{})
		assert.Equal(t, models.TableAvailable, data["status"])
	})

	t.Run("Rejects a duplicate number", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, "/tables", map[string]interface{}{
			"table_number": 1,
			"capacity":     2,
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assertErrorCode(t, w, "TABLE_NUMBER_EXISTS")
	})

	t.Run("Allows reusing a soft-deleted number", func(t *testing.T) {
		var table models.Table
		db.Where("table_number = ?", 1).First(&table)
		db.Delete(&table)

		w := performRequest(router, http.MethodPost, "/tables", map[string]interface{}{
			"table_number": 1,
			"capacity":     6,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestReserveTable(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	config.SetConfig(&config.Config{ReservationTTLMinutes: 15})
	services.SetNotifier(nil)

	table := seedTable(db, 10)

	router := setupTestRouter()
	router.POST("/tables/:id/reserve", ReserveTable)

	t.Run("Reserves an available table with an expiry window", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, fmt.Sprintf("/tables/%d/reserve", table.ID), map[string]interface{}{
			"name":  "Anh Tuan",
			"phone": "0901234567",
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var reloaded models.Table
		db.First(&reloaded, table.ID)
		assert.Equal(t, models.TableReserved, reloaded.Status)
		assert.Equal(t, "Anh Tuan", reloaded.ReservationName)
		assert.NotNil(t, reloaded.ReservationExpiresAt)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), *reloaded.ReservationExpiresAt, 5*time.Second)
	})

	t.Run("Cannot reserve a table that is not available", func(t *testing.T) {
		w := performRequest(router, http.MethodPost, fmt.Sprintf("/tables/%d/reserve", table.ID), map[string]interface{}{
			"name":  "Chi Lan",
			"phone": "0907654321",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, w, "TABLE_NOT_AVAILABLE")
	})
}

func TestReservationExpiry(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	config.SetConfig(&config.Config{ReservationTTLMinutes: 15})
	services.SetNotifier(nil)

	expired := time.Now().Add(-time.Minute)
	reservedAt := time.Now().Add(-16 * time.Minute)

	t.Run("A read reverts an expired reservation", func(t *testing.T) {
		table := seedTable(db, 20)
		db.Model(table).Updates(map[string]interface{}{
			"status":                 models.TableReserved,
			"reservation_name":       "No Show",
			"reservation_phone":      "0900000000",
			"reserved_at":            reservedAt,
			"reservation_expires_at": expired,
		})

		router := setupTestRouter()
		router.GET("/tables/:id", GetTable)

		w := performRequest(router, http.MethodGet, fmt.Sprintf("/tables/%d", table.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		data := parseResponse(t, w)["data"].(map[string]interface{})
		assert.Equal(t, models.TableAvailable, data["status"])

		var reloaded models.Table
		db.First(&reloaded, table.ID)
		assert.Equal(t, models.TableAvailable, reloaded.Status)
		assert.Empty(t, reloaded.ReservationName)
		assert.Nil(t, reloaded.ReservationExpiresAt)
	})

	t.Run("A live reservation is left alone", func(t *testing.T) {
		table := seedTable(db, 21)
		future := time.Now().Add(10 * time.Minute)
		db.Model(table).Updates(map[string]interface{}{
			"status":                 models.TableReserved,
			"reservation_name":       "On Time",
			"reservation_expires_at": future,
		})

		router := setupTestRouter()
		router.GET("/tables/:id", GetTable)

		w := performRequest(router, http.MethodGet, fmt.Sprintf("/tables/%d", table.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		data := parseResponse(t, w)["data"].(map[string]interface{})
		assert.Equal(t, models.TableReserved, data["status"])
	})

	t.Run("Claiming a reserved table retains the occupation", func(t *testing.T) {
		table := seedTable(db, 22)
		future := time.Now().Add(10 * time.Minute)
		db.Model(table).Updates(map[string]interface{}{
			"status":                 models.TableReserved,
			"reservation_name":       "Shows Up",
			"reservation_expires_at": future,
		})

		router := setupTestRouter()
		router.POST("/tables/:id/occupy", OccupyTable)
		router.GET("/tables/:id", GetTable)

		w := performRequest(router, http.MethodPost, fmt.Sprintf("/tables/%d/occupy", table.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		// Even long after the original window the table stays occupied;
		// expiry only ever touches reserved tables
		w = performRequest(router, http.MethodGet, fmt.Sprintf("/tables/%d", table.ID), nil)
		data := parseResponse(t, w)["data"].(map[string]interface{})
		assert.Equal(t, models.TableOccupied, data["status"])
	})

	t.Run("Background sweep reverts expired reservations", func(t *testing.T) {
		table := seedTable(db, 23)
		db.Model(table).Updates(map[string]interface{}{
			"status":                 models.TableReserved,
			"reservation_name":       "Swept",
			"reservation_expires_at": expired,
		})

		count, err := services.SweepExpiredReservations(db, time.Now())
		assert.NoError(t, err)
		assert.Equal(t, 1, count)

		var reloaded models.Table
		db.First(&reloaded, table.ID)
		assert.Equal(t, models.TableAvailable, reloaded.Status)
	})
}

func TestReleaseTable(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	config.SetConfig(&config.Config{ReservationTTLMinutes: 15})
	services.SetNotifier(nil)

	table := seedTable(db, 30)
	order := seedOrder(db, 30, models.OrderItem{
		Name: "Com ga", Price: 55000, Quantity: 1, Status: models.ItemPending,
	})
	db.Model(table).Updates(map[string]interface{}{
		"status":           models.TableOccupied,
		"current_order_id": order.ID,
	})

	router := setupTestRouter()
	router.POST("/tables/:id/release", ReleaseTable)

	w := performRequest(router, http.MethodPost, fmt.Sprintf("/tables/%d/release", table.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorCode(t, w, "TABLE_HAS_ORDER")
}

func TestDeleteTable(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	config.SetConfig(&config.Config{ReservationTTLMinutes: 15})
	services.SetNotifier(nil)

	t.Run("Cannot delete an occupied table", func(t *testing.T) {
		table := seedTable(db, 40)
		order := seedOrder(db, 40, models.OrderItem{
			Name: "Bia", Price: 20000, Quantity: 2, Status: models.ItemServed,
		})
		db.Model(table).Updates(map[string]interface{}{
			"status":           models.TableOccupied,
			"current_order_id": order.ID,
		})

		router := setupTestRouter()
		router.DELETE("/tables/:id", DeleteTable)

		w := performRequest(router, http.MethodDelete, fmt.Sprintf("/tables/%d", table.ID), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, w, "TABLE_OCCUPIED")
	})

	t.Run("Soft deletes a free table", func(t *testing.T) {
		table := seedTable(db, 41)

		router := setupTestRouter()
		router.DELETE("/tables/:id", DeleteTable)

		w := performRequest(router, http.MethodDelete, fmt.Sprintf("/tables/%d", table.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var count int64
		db.Model(&models.Table{}).Where("table_number = ?", 41).Count(&count)
		assert.Equal(t, int64(0), count)
		db.Unscoped().Model(&models.Table{}).Where("table_number = ?", 41).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}
