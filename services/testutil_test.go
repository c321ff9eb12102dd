package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sstent/foodplanner-sub000/config"
	"github.com/sstent/foodplanner-sub000/models"
)

// newTestDB opens a throwaway sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

// seedFood inserts a food with the given per-100g calories unless a
// serving size is supplied.
func seedFood(t *testing.T, db *gorm.DB, name string, servingSize, calories float64) models.Food {
	t.Helper()
	food := models.Food{Name: name, ServingSize: servingSize, Calories: calories, Source: models.FoodSourceManual}
	require.NoError(t, db.Create(&food).Error)
	return food
}

type mealLine struct {
	FoodID uint
	Grams  float64
}

// seedMeal inserts a meal with the given food lines, in order.
func seedMeal(t *testing.T, db *gorm.DB, name string, lines []mealLine) models.Meal {
	t.Helper()
	meal := models.Meal{Name: name, MealType: models.MealTypeCustom, MealTime: "lunch"}
	require.NoError(t, db.Create(&meal).Error)
	for _, line := range lines {
		mf := models.MealFood{MealID: meal.ID, FoodID: line.FoodID, QuantityGrams: line.Grams}
		require.NoError(t, db.Create(&mf).Error)
	}
	return meal
}

func testDate(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
}
