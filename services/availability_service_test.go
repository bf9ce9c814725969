package services

import (
	"errors"
	"testing"

	"github.com/minhanh-dev/restaurant-pos-api/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeItem{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
		&models.Shift{},
		&models.Attendance{},
		&models.SalaryLog{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func TestMenuItemAvailable(t *testing.T) {
	db := setupServiceTestDB(t)

	beef := models.Ingredient{Name: "Beef", Unit: "kg", Quantity: 2, Threshold: 0.5}
	noodles := models.Ingredient{Name: "Rice noodles", Unit: "kg", Quantity: 0.1, Threshold: 0.5}
	db.Create(&beef)
	db.Create(&noodles)

	pho := models.MenuItem{Name: "Pho bo", Price: 65000, Status: models.MenuItemAvailable}
	sandwich := models.MenuItem{Name: "Banh mi", Price: 30000, Status: models.MenuItemAvailable}
	ghostDish := models.MenuItem{Name: "Ghost dish", Price: 10000, Status: models.MenuItemAvailable}
	db.Create(&pho)
	db.Create(&sandwich)
	db.Create(&ghostDish)

	// Pho needs beef and noodles; noodles are short
	db.Create(&models.Recipe{MenuItemID: pho.ID, Items: []models.RecipeItem{
		{IngredientID: beef.ID, Quantity: 0.2},
		{IngredientID: noodles.ID, Quantity: 0.2},
	}})
	// Ghost dish references an ingredient id that does not exist
	db.Create(&models.Recipe{MenuItemID: ghostDish.ID, Items: []models.RecipeItem{
		{IngredientID: 9999, Quantity: 1},
	}})

	tests := []struct {
		name      string
		menuItem  uint
		available bool
	}{
		{"Short ingredient makes the item unavailable", pho.ID, false},
		{"No recipe means always available", sandwich.ID, true},
		{"Missing ingredient fails closed", ghostDish.ID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			available, err := MenuItemAvailable(db, tt.menuItem)
			assert.NoError(t, err)
			assert.Equal(t, tt.available, available)
		})
	}
}

func TestRefreshMenuItemAvailability(t *testing.T) {
	db := setupServiceTestDB(t)
	SetNotifier(nil)

	flour := models.Ingredient{Name: "Flour", Unit: "kg", Quantity: 0}
	db.Create(&flour)
	pancake := models.MenuItem{Name: "Banh xeo", Price: 45000, Status: models.MenuItemAvailable}
	db.Create(&pancake)
	db.Create(&models.Recipe{MenuItemID: pancake.ID, Items: []models.RecipeItem{
		{IngredientID: flour.ID, Quantity: 0.1},
	}})

	// First refresh flips available -> soldout
	status, changed, err := RefreshMenuItemAvailability(db, &pancake)
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.MenuItemSoldOut, status)

	// Second refresh with unchanged stock writes nothing
	status, changed, err = RefreshMenuItemAvailability(db, &pancake)
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.MenuItemSoldOut, status)

	// Restock and the item comes back
	db.Model(&flour).Update("quantity", 5)
	status, changed, err = RefreshMenuItemAvailability(db, &pancake)
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.MenuItemAvailable, status)
}

func TestConsumeIngredients(t *testing.T) {
	db := setupServiceTestDB(t)

	pork := models.Ingredient{Name: "Pork", Unit: "kg", Quantity: 3}
	herbs := models.Ingredient{Name: "Herbs", Unit: "kg", Quantity: 0.2}
	db.Create(&pork)
	db.Create(&herbs)

	t.Run("Deducts a satisfiable batch", func(t *testing.T) {
		err := ConsumeIngredients(db, []IngredientConsumption{
			{IngredientID: pork.ID, Quantity: 1},
			{IngredientID: herbs.ID, Quantity: 0.1},
		})
		assert.NoError(t, err)

		var reloaded models.Ingredient
		db.First(&reloaded, pork.ID)
		assert.InDelta(t, 2.0, reloaded.Quantity, 0.0001)
		db.First(&reloaded, herbs.ID)
		assert.InDelta(t, 0.1, reloaded.Quantity, 0.0001)
	})

	t.Run("Aborts the whole batch listing every shortage", func(t *testing.T) {
		err := ConsumeIngredients(db, []IngredientConsumption{
			{IngredientID: pork.ID, Quantity: 1},
			{IngredientID: herbs.ID, Quantity: 5},
			{IngredientID: 9999, Quantity: 1},
		})

		var stockErr *ErrInsufficientStock
		assert.True(t, errors.As(err, &stockErr))
		assert.Len(t, stockErr.Short, 2)
		assert.Contains(t, stockErr.Error(), "Herbs")
		assert.Contains(t, stockErr.Error(), "9999")

		// The satisfiable pork line was rolled back with the rest
		var reloaded models.Ingredient
		db.First(&reloaded, pork.ID)
		assert.InDelta(t, 2.0, reloaded.Quantity, 0.0001)
	})
}

func TestConsumeForMenuItem(t *testing.T) {
	db := setupServiceTestDB(t)

	shrimp := models.Ingredient{Name: "Shrimp", Unit: "kg", Quantity: 1}
	db.Create(&shrimp)

	rolls := models.MenuItem{Name: "Goi cuon", Price: 45000, Status: models.MenuItemAvailable}
	db.Create(&rolls)
	db.Create(&models.Recipe{MenuItemID: rolls.ID, Items: []models.RecipeItem{
		{IngredientID: shrimp.ID, Quantity: 0.1},
	}})

	// Quantity scales the recipe lines
	err := ConsumeForMenuItem(db, rolls.ID, 3)
	assert.NoError(t, err)

	var reloaded models.Ingredient
	db.First(&reloaded, shrimp.ID)
	assert.InDelta(t, 0.7, reloaded.Quantity, 0.0001)

	// A dish without a recipe consumes nothing
	soup := models.MenuItem{Name: "Canh chua", Price: 40000, Status: models.MenuItemAvailable}
	db.Create(&soup)
	assert.NoError(t, ConsumeForMenuItem(db, soup.ID, 10))
}
