package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sstent/foodplanner-sub000/models"
	"github.com/sstent/foodplanner-sub000/utils"
)

func TestCreateMeal(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	apple := seedFood(t, db, "Apple", 100, 52)
	broken := seedFood(t, db, "Broken", 0, 100)

	t.Run("creates meal with foods", func(t *testing.T) {
		meal, err := svc.CreateMeal("Snack", "", "snack", []MealFoodInput{
			{FoodID: apple.ID, Grams: 150},
		})
		require.NoError(t, err)
		assert.Equal(t, models.MealTypeCustom, meal.MealType)
		require.Len(t, meal.Foods, 1)
		assert.Equal(t, 150.0, meal.Foods[0].QuantityGrams)
		assert.Equal(t, "Apple", meal.Foods[0].Food.Name)
	})

	t.Run("unknown food aborts the whole create", func(t *testing.T) {
		_, err := svc.CreateMeal("Nope", "", "", []MealFoodInput{
			{FoodID: apple.ID, Grams: 100},
			{FoodID: 9999, Grams: 100},
		})
		assert.ErrorIs(t, err, ErrFoodNotFound)
		var count int64
		require.NoError(t, db.Model(&models.Meal{}).Where("name = ?", "Nope").Count(&count).Error)
		assert.Zero(t, count, "failed create must roll back the meal row")
	})

	t.Run("invalid serving size rejected on persist path", func(t *testing.T) {
		_, err := svc.CreateMeal("Bad", "", "", []MealFoodInput{
			{FoodID: broken.ID, Grams: 100},
		})
		assert.ErrorIs(t, err, utils.ErrInvalidServingSize)
	})
}

func TestUpdateMealReplacesFoods(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	apple := seedFood(t, db, "Apple", 100, 52)
	banana := seedFood(t, db, "Banana", 100, 89)

	meal, err := svc.CreateMeal("Bowl", "", "lunch", []MealFoodInput{
		{FoodID: apple.ID, Grams: 150},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateMeal(meal.ID, "Bowl v2", models.MealTypeLunch, "lunch", []MealFoodInput{
		{FoodID: banana.ID, Grams: 120},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bowl v2", updated.Name)
	require.Len(t, updated.Foods, 1)
	assert.Equal(t, banana.ID, updated.Foods[0].FoodID)

	var count int64
	require.NoError(t, db.Model(&models.MealFood{}).Where("meal_id = ?", meal.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "old food rows are replaced, not accumulated")
}

func TestDeleteMeal(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	apple := seedFood(t, db, "Apple", 100, 52)

	meal, err := svc.CreateMeal("Bowl", "", "lunch", []MealFoodInput{
		{FoodID: apple.ID, Grams: 150},
	})
	require.NoError(t, err)

	t.Run("refused while a plan references it", func(t *testing.T) {
		plan := models.Plan{Person: "alice", Date: testDate(t), MealID: meal.ID, MealTime: "lunch"}
		require.NoError(t, db.Create(&plan).Error)
		assert.ErrorIs(t, svc.DeleteMeal(meal.ID), ErrMealInUse)
		require.NoError(t, db.Delete(&plan).Error)
	})

	t.Run("deletes owned food rows with the meal", func(t *testing.T) {
		require.NoError(t, svc.DeleteMeal(meal.ID))
		var count int64
		require.NoError(t, db.Model(&models.MealFood{}).Where("meal_id = ?", meal.ID).Count(&count).Error)
		assert.Zero(t, count, "no orphaned meal_foods rows")
	})
}

func TestComputeMealNutrition(t *testing.T) {
	db := newTestDB(t)
	svc := NewMealService(db)
	apple := seedFood(t, db, "Apple", 100, 52)
	banana := seedFood(t, db, "Banana", 100, 89)

	meal, err := svc.CreateMeal("Fruit Bowl", "", "lunch", []MealFoodInput{
		{FoodID: apple.ID, Grams: 150},
		{FoodID: banana.ID, Grams: 100},
	})
	require.NoError(t, err)

	totals, err := svc.ComputeMealNutrition(meal.ID)
	require.NoError(t, err)
	assert.InDelta(t, 167.0, totals.Calories, 0.001)

	_, err = svc.ComputeMealNutrition(9999)
	assert.ErrorIs(t, err, ErrMealNotFound)
}
