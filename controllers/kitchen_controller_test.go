package controllers

import (
	"net/http"
	"testing"

	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/models"
	"github.com/stretchr/testify/assert"
)

func TestGetKitchenQueue(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	// Still needs kitchen work
	active := seedOrder(db, 1,
		models.OrderItem{Name: "Phở bò", Price: 65000, Quantity: 1, Status: models.ItemPending},
		models.OrderItem{Name: "Trà đá", Price: 5000, Quantity: 1, Status: models.ItemReady},
	)

	// All dishes done, nothing left for the kitchen
	seedOrder(db, 2,
		models.OrderItem{Name: "Bún chả", Price: 55000, Quantity: 1, Status: models.ItemServed},
		models.OrderItem{Name: "Nem rán", Price: 40000, Quantity: 1, Status: models.ItemReady},
	)

	// Paid and cancelled orders never reach the queue
	paid := seedOrder(db, 3, models.OrderItem{Name: "Cà phê", Price: 30000, Quantity: 1, Status: models.ItemPending})
	db.Model(paid).Update("status", models.OrderPaid)
	cancelled := seedOrder(db, 4, models.OrderItem{Name: "Cà phê", Price: 30000, Quantity: 1, Status: models.ItemPending})
	db.Model(cancelled).Update("status", models.OrderCancelled)

	router := setupTestRouter()
	router.GET("/api/v1/kitchen/queue", GetKitchenQueue)

	w := performRequest(router, "GET", "/api/v1/kitchen/queue", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	queue := response["data"].([]interface{})
	assert.Len(t, queue, 1)

	entry := queue[0].(map[string]interface{})
	assert.Equal(t, float64(active.ID), entry["id"].(float64))
	assert.Len(t, entry["items"].([]interface{}), 2)
}

func TestGetKitchenQueue_Empty(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	router := setupTestRouter()
	router.GET("/api/v1/kitchen/queue", GetKitchenQueue)

	w := performRequest(router, "GET", "/api/v1/kitchen/queue", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	assert.Empty(t, response["data"])
}
