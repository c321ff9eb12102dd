package models

import (
	"time"

	"gorm.io/gorm"
)

// Plan schedules a meal for a person on a calendar date. Several plans
// may share a (person, date, meal_time) slot; each is one item in it.
type Plan struct {
	gorm.Model
	Person   string    `gorm:"index:idx_plan_person_date;not null" json:"person"`
	Date     time.Time `gorm:"index:idx_plan_person_date;type:date;not null" json:"date"`
	MealID   uint      `gorm:"index;not null" json:"meal_id"`
	Meal     Meal      `json:"meal"`
	MealTime string    `json:"meal_time"`
}
