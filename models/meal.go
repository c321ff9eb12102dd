package models

import "gorm.io/gorm"

// Meal types. single_food wraps one food so it can sit in a meal slot;
// tracked_snapshot is a frozen copy made when tracking diverges from a
// shared meal.
const (
	MealTypeBreakfast       = "breakfast"
	MealTypeLunch           = "lunch"
	MealTypeDinner          = "dinner"
	MealTypeSnack           = "snack"
	MealTypeCustom          = "custom"
	MealTypeSingleFood      = "single_food"
	MealTypeTrackedSnapshot = "tracked_snapshot"
)

// Meal is a reusable named composition of foods. MealTime is the default
// slot label ("breakfast", "morning snack", ...) used when the meal is
// planned or tracked without an explicit slot.
type Meal struct {
	gorm.Model
	Name     string     `gorm:"not null" json:"name"`
	MealType string     `gorm:"not null;default:custom" json:"meal_type"`
	MealTime string     `json:"meal_time"`
	Foods    []MealFood `json:"foods"`
}

// MealFood is one food in a meal at a quantity in grams. These rows are
// shared by every plan and tracked day that references the meal, so
// per-day edits must never touch them.
type MealFood struct {
	gorm.Model
	MealID        uint    `gorm:"index;not null" json:"meal_id"`
	FoodID        uint    `gorm:"index;not null" json:"food_id"`
	Food          Food    `json:"food"`
	QuantityGrams float64 `json:"quantity_grams"`
}
