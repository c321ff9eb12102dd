package models

import "gorm.io/gorm"

// Where a food's nutrition profile came from.
const (
	FoodSourceManual        = "manual"
	FoodSourceCSV           = "csv"
	FoodSourceOpenFoodFacts = "openfoodfacts"
)

// Food is one catalog entry. Nutrient values are per ServingSize grams.
// A serving size of zero is tolerated by aggregation (the food simply
// contributes nothing) but rejected when persisting quantities.
type Food struct {
	gorm.Model
	Name        string  `gorm:"uniqueIndex;not null" json:"name"`
	Brand       string  `json:"brand"`
	Source      string  `gorm:"not null;default:manual" json:"source"`
	ServingSize float64 `json:"serving_size"`

	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
	Calcium  float64 `json:"calcium"`
}
