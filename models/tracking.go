package models

import (
	"time"

	"gorm.io/gorm"
)

// Override states for a TrackedMealFood row. A food present in the base
// meal with no row at all is in its base state and needs no row.
const (
	// OverrideStateAdded marks a food the user added that is not part of
	// the base meal.
	OverrideStateAdded = "added"
	// OverrideStateOverride marks a base-meal food whose quantity was
	// changed for this tracked meal only.
	OverrideStateOverride = "override"
	// OverrideStateDeleted marks a base-meal food suppressed from this
	// tracked meal. QuantityGrams is meaningless in this state.
	OverrideStateDeleted = "deleted"
)

// TrackedDay is the record of what a person actually ate on a date.
// Created lazily the first time the date is opened for tracking.
// IsModified flips true on any divergence from the plan that seeded it
// and back to false only on an explicit reset.
type TrackedDay struct {
	gorm.Model
	Person     string        `gorm:"uniqueIndex:uidx_tracked_person_date;not null" json:"person"`
	Date       time.Time     `gorm:"uniqueIndex:uidx_tracked_person_date;type:date;not null" json:"date"`
	IsModified bool          `gorm:"not null;default:false" json:"is_modified"`
	Meals      []TrackedMeal `json:"meals"`
}

// TrackedMeal is one meal instance on a tracked day. Its effective food
// list is the base meal's foods merged with this instance's override
// rows; it is recomputed on every read, never stored.
type TrackedMeal struct {
	gorm.Model
	TrackedDayID uint              `gorm:"index;not null" json:"tracked_day_id"`
	MealID       uint              `gorm:"index;not null" json:"meal_id"`
	Meal         Meal              `json:"meal"`
	MealTime     string            `json:"meal_time"`
	Foods        []TrackedMealFood `json:"foods"`
}

// TrackedMealFood is one per-day deviation from the base meal. At most
// one row may exist per (tracked_meal, food) pair; writers must search
// before inserting.
type TrackedMealFood struct {
	gorm.Model
	TrackedMealID uint    `gorm:"index:idx_tmf_meal_food;not null" json:"tracked_meal_id"`
	FoodID        uint    `gorm:"index:idx_tmf_meal_food;not null" json:"food_id"`
	Food          Food    `json:"food"`
	QuantityGrams float64 `json:"quantity_grams"`
	State         string  `gorm:"not null" json:"state"`
}
