package models

import "gorm.io/gorm"

// Template is a day's worth of meal assignments, reusable across dates.
type Template struct {
	gorm.Model
	Name  string         `gorm:"uniqueIndex;not null" json:"name"`
	Meals []TemplateMeal `json:"meals"`
}

// TemplateMeal assigns one meal to a slot within a template. Position
// keeps the slots in the order the user arranged them.
type TemplateMeal struct {
	gorm.Model
	TemplateID uint   `gorm:"index;not null" json:"template_id"`
	MealID     uint   `gorm:"index;not null" json:"meal_id"`
	Meal       Meal   `json:"meal"`
	MealTime   string `json:"meal_time"`
	Position   int    `json:"position"`
}

// WeeklyMenu maps days of the week to templates.
type WeeklyMenu struct {
	gorm.Model
	Name string          `gorm:"uniqueIndex;not null" json:"name"`
	Days []WeeklyMenuDay `json:"days"`
}

// WeeklyMenuDay assigns a template to one day of the week.
// DayOfWeek is 0–6 counted from the week start the menu is applied to.
type WeeklyMenuDay struct {
	gorm.Model
	WeeklyMenuID uint     `gorm:"index;not null" json:"weekly_menu_id"`
	DayOfWeek    int      `gorm:"not null" json:"day_of_week"`
	TemplateID   uint     `gorm:"index;not null" json:"template_id"`
	Template     Template `json:"template"`
}
