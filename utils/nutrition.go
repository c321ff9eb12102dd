package utils

import (
	"errors"
	"log"
	"math"

	"github.com/sstent/foodplanner-sub000/models"
)

var (
	// ErrInvalidServingSize is returned by the strict conversion path when
	// a food's serving size is zero or negative.
	ErrInvalidServingSize = errors.New("invalid serving size")
	// ErrInvalidQuantity is returned when a gram amount is negative.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// Totals is the fixed-shape result of nutrition aggregation. The eight
// nutrient sums are in the food's native units scaled by quantity; the
// derived fields are computed once from the final sums.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
	Calcium  float64 `json:"calcium"`

	ProteinPct float64 `json:"protein_pct"`
	CarbsPct   float64 `json:"carbs_pct"`
	FatPct     float64 `json:"fat_pct"`
	NetCarbs   float64 `json:"net_carbs"`
}

// FoodQuantity pairs a food with a consumed amount in grams.
type FoodQuantity struct {
	Food  models.Food
	Grams float64
}

// Multiplier scales a food's per-serving nutrients to a gram amount.
// A zero or negative serving size yields multiplier 0 so a malformed
// food degrades to a zero contribution instead of breaking a whole
// day's totals. Callers on persistence paths must use StrictMultiplier.
func Multiplier(servingSize, grams float64) float64 {
	if servingSize <= 0 {
		return 0
	}
	return grams / servingSize
}

// StrictMultiplier is the conversion used before storing a quantity,
// where a silent zero would corrupt the stored value.
func StrictMultiplier(servingSize, grams float64) (float64, error) {
	if servingSize <= 0 {
		return 0, ErrInvalidServingSize
	}
	if grams < 0 {
		return 0, ErrInvalidQuantity
	}
	return grams / servingSize, nil
}

// Sum accumulates raw nutrient totals without deriving percentages.
// Duplicate foods each contribute independently. Day-level callers sum
// several meals with it and finalize once at the end, because the
// percentage fields are not additive.
func (t *Totals) Sum(pairs []FoodQuantity) {
	for _, p := range pairs {
		m := Multiplier(p.Food.ServingSize, p.Grams)
		if m == 0 && p.Food.ServingSize <= 0 {
			log.Printf("nutrition: food %q has serving size %v, contributing zero", p.Food.Name, p.Food.ServingSize)
		}
		t.Calories += p.Food.Calories * m
		t.Protein += p.Food.Protein * m
		t.Carbs += p.Food.Carbs * m
		t.Fat += p.Food.Fat * m
		t.Fiber += p.Food.Fiber * m
		t.Sugar += p.Food.Sugar * m
		t.Sodium += p.Food.Sodium * m
		t.Calcium += p.Food.Calcium * m
	}
}

// Finalize rounds the nutrient sums for display and derives the macro
// percentages (Atwater factors: 4 kcal/g protein and carbs, 9 kcal/g
// fat) and net carbs. With zero or negative calories every derived
// field stays 0; returning NaN here used to blank entire day views.
func (t *Totals) Finalize() {
	if t.Calories > 0 {
		t.ProteinPct = round1(t.Protein * 4 / t.Calories * 100)
		t.CarbsPct = round1(t.Carbs * 4 / t.Calories * 100)
		t.FatPct = round1(t.Fat * 9 / t.Calories * 100)
		t.NetCarbs = t.Carbs - t.Fiber
	}
	t.Calories = round2(t.Calories)
	t.Protein = round2(t.Protein)
	t.Carbs = round2(t.Carbs)
	t.Fat = round2(t.Fat)
	t.Fiber = round2(t.Fiber)
	t.Sugar = round2(t.Sugar)
	t.Sodium = round2(t.Sodium)
	t.Calcium = round2(t.Calcium)
}

// Aggregate computes finalized totals for one list of food quantities.
func Aggregate(pairs []FoodQuantity) Totals {
	var t Totals
	t.Sum(pairs)
	t.Finalize()
	return t
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
