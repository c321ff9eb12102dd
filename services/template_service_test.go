package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sstent/foodplanner-sub000/models"
)

func newTemplateService(db *gorm.DB) *TemplateService {
	return NewTemplateService(db, NewTrackingService(db))
}

func TestTemplateCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	food := seedFood(t, db, "Oats", 100, 389)
	porridge := seedMeal(t, db, "Porridge", []mealLine{{FoodID: food.ID, Grams: 60}})
	salad := seedMeal(t, db, "Salad", nil)

	tpl, err := svc.CreateTemplate("Weekday", []TemplateMealInput{
		{MealID: porridge.ID, MealTime: "breakfast"},
		{MealID: salad.ID, MealTime: "lunch"},
	})
	require.NoError(t, err)
	require.Len(t, tpl.Meals, 2)
	assert.Equal(t, "breakfast", tpl.Meals[0].MealTime)
	assert.Equal(t, 0, tpl.Meals[0].Position)

	t.Run("duplicate name rejected before write", func(t *testing.T) {
		_, err := svc.CreateTemplate("Weekday", nil)
		assert.ErrorIs(t, err, ErrDuplicateName)
		var count int64
		require.NoError(t, db.Model(&models.Template{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("unknown meal rejected", func(t *testing.T) {
		_, err := svc.CreateTemplate("Bad", []TemplateMealInput{{MealID: 9999}})
		assert.ErrorIs(t, err, ErrMealNotFound)
	})

	t.Run("update replaces slots", func(t *testing.T) {
		updated, err := svc.UpdateTemplate(tpl.ID, "Weekday v2", []TemplateMealInput{
			{MealID: salad.ID, MealTime: "dinner"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Weekday v2", updated.Name)
		require.Len(t, updated.Meals, 1)
		assert.Equal(t, salad.ID, updated.Meals[0].MealID)
	})

	t.Run("delete removes owned slot rows", func(t *testing.T) {
		require.NoError(t, svc.DeleteTemplate(tpl.ID))
		var count int64
		require.NoError(t, db.Model(&models.TemplateMeal{}).Where("template_id = ?", tpl.ID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("name is reusable after delete", func(t *testing.T) {
		_, err := svc.CreateTemplate("Weekday v2", []TemplateMealInput{
			{MealID: salad.ID, MealTime: "lunch"},
		})
		require.NoError(t, err)
	})
}

func TestApplyTemplateReplacesDay(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	tracking := svc.tracking
	food := seedFood(t, db, "Oats", 100, 389)
	porridge := seedMeal(t, db, "Porridge", []mealLine{{FoodID: food.ID, Grams: 60}})
	salad := seedMeal(t, db, "Salad", nil)

	tpl, err := svc.CreateTemplate("Weekday", []TemplateMealInput{
		{MealID: porridge.ID, MealTime: "breakfast"},
	})
	require.NoError(t, err)

	// Track something first; applying the template must replace it.
	_, err = tracking.AddTrackedMeal("alice", testDate(t), salad.ID, "lunch")
	require.NoError(t, err)

	day, err := svc.ApplyTemplate(tpl.ID, "alice", testDate(t))
	require.NoError(t, err)
	assert.True(t, day.IsModified)
	require.Len(t, day.Meals, 1)
	assert.Equal(t, porridge.ID, day.Meals[0].MealID)
	assert.Equal(t, "breakfast", day.Meals[0].MealTime)
}

func TestApplyWeeklyMenu(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	food := seedFood(t, db, "Oats", 100, 389)
	porridge := seedMeal(t, db, "Porridge", []mealLine{{FoodID: food.ID, Grams: 60}})

	tpl, err := svc.CreateTemplate("Weekday", []TemplateMealInput{
		{MealID: porridge.ID, MealTime: "breakfast"},
	})
	require.NoError(t, err)

	menu, err := svc.CreateMenu("Standard Week", []MenuDayInput{
		{DayOfWeek: 0, TemplateID: tpl.ID},
		{DayOfWeek: 3, TemplateID: tpl.ID},
	})
	require.NoError(t, err)

	weekStart := testDate(t) // a Monday

	t.Run("clean week applies without confirmation", func(t *testing.T) {
		result, err := svc.ApplyWeeklyMenu(menu.ID, "alice", weekStart, false)
		require.NoError(t, err)
		assert.False(t, result.NeedsConfirmation)
		assert.Equal(t, 2, result.PlansCreated)

		var plans []models.Plan
		require.NoError(t, db.Where("person = ?", "alice").Order("date ASC").Find(&plans).Error)
		require.Len(t, plans, 2)
		assert.Equal(t, "2024-03-11", plans[0].Date.UTC().Format("2006-01-02"))
		assert.Equal(t, "2024-03-14", plans[1].Date.UTC().Format("2006-01-02"))
	})

	t.Run("occupied week needs confirmation and writes nothing", func(t *testing.T) {
		result, err := svc.ApplyWeeklyMenu(menu.ID, "alice", weekStart, false)
		require.NoError(t, err)
		assert.True(t, result.NeedsConfirmation)
		assert.Equal(t, 2, result.ExistingPlans)

		var count int64
		require.NoError(t, db.Model(&models.Plan{}).Where("person = ?", "alice").Count(&count).Error)
		assert.EqualValues(t, 2, count, "guard must not touch existing plans")
	})

	t.Run("confirmed apply overwrites the week", func(t *testing.T) {
		// Add a manual plan inside the week; the confirmed apply
		// replaces it along with the rest.
		manual := models.Plan{Person: "alice", Date: weekStart.AddDate(0, 0, 5), MealID: porridge.ID, MealTime: "dinner"}
		require.NoError(t, db.Create(&manual).Error)

		result, err := svc.ApplyWeeklyMenu(menu.ID, "alice", weekStart, true)
		require.NoError(t, err)
		assert.False(t, result.NeedsConfirmation)
		assert.Equal(t, 2, result.PlansCreated)

		var count int64
		require.NoError(t, db.Model(&models.Plan{}).Where("person = ?", "alice").Count(&count).Error)
		assert.EqualValues(t, 2, count)
	})

	t.Run("another person's week is untouched", func(t *testing.T) {
		result, err := svc.ApplyWeeklyMenu(menu.ID, "bob", weekStart, false)
		require.NoError(t, err)
		assert.False(t, result.NeedsConfirmation)
		assert.Equal(t, 2, result.PlansCreated)
	})
}

func TestMenuCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	meal := seedMeal(t, db, "Salad", nil)
	tpl, err := svc.CreateTemplate("Weekday", []TemplateMealInput{{MealID: meal.ID, MealTime: "lunch"}})
	require.NoError(t, err)

	t.Run("day_of_week out of range rejected", func(t *testing.T) {
		_, err := svc.CreateMenu("Bad", []MenuDayInput{{DayOfWeek: 7, TemplateID: tpl.ID}})
		assert.Error(t, err)
	})

	menu, err := svc.CreateMenu("Week", []MenuDayInput{{DayOfWeek: 1, TemplateID: tpl.ID}})
	require.NoError(t, err)

	t.Run("duplicate menu name rejected", func(t *testing.T) {
		_, err := svc.CreateMenu("Week", nil)
		assert.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("deleting a template clears menu references", func(t *testing.T) {
		require.NoError(t, svc.DeleteTemplate(tpl.ID))
		var count int64
		require.NoError(t, db.Model(&models.WeeklyMenuDay{}).Where("weekly_menu_id = ?", menu.ID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("menu name is reusable after delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteMenu(menu.ID))
		_, err := svc.CreateMenu("Week", nil)
		require.NoError(t, err)
	})
}

func TestPlanCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := newTemplateService(db)
	meal := seedMeal(t, db, "Salad", nil)

	plan, err := svc.CreatePlan("alice", testDate(t), meal.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "lunch", plan.MealTime, "empty slot falls back to the meal's default")

	plans, err := svc.ListPlans("alice", testDate(t))
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	require.NoError(t, svc.DeletePlan(plan.ID))
	assert.ErrorIs(t, svc.DeletePlan(plan.ID), ErrPlanNotFound)

	_, err = svc.CreatePlan("alice", testDate(t), 9999, "")
	assert.ErrorIs(t, err, ErrMealNotFound)
}
