package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sstent/foodplanner-sub000/models"
)

func TestMultiplier(t *testing.T) {
	tests := []struct {
		name        string
		servingSize float64
		grams       float64
		want        float64
	}{
		{name: "serving 100 grams 150", servingSize: 100, grams: 150, want: 1.5},
		{name: "serving 50 grams 125", servingSize: 50, grams: 125, want: 2.5},
		{name: "serving 100 grams 0", servingSize: 100, grams: 0, want: 0},
		{name: "zero serving size degrades to zero", servingSize: 0, grams: 150, want: 0},
		{name: "negative serving size degrades to zero", servingSize: -10, grams: 150, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Multiplier(tt.servingSize, tt.grams))
		})
	}
}

func TestStrictMultiplier(t *testing.T) {
	tests := []struct {
		name        string
		servingSize float64
		grams       float64
		want        float64
		wantErr     error
	}{
		{name: "valid conversion", servingSize: 100, grams: 250, want: 2.5},
		{name: "zero serving size rejected", servingSize: 0, grams: 100, wantErr: ErrInvalidServingSize},
		{name: "negative serving size rejected", servingSize: -1, grams: 100, wantErr: ErrInvalidServingSize},
		{name: "negative grams rejected", servingSize: 100, grams: -5, wantErr: ErrInvalidQuantity},
		{name: "zero grams allowed", servingSize: 100, grams: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StrictMultiplier(tt.servingSize, tt.grams)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAggregate(t *testing.T) {
	apple := models.Food{Name: "Apple", ServingSize: 100, Calories: 52, Protein: 0.3, Carbs: 14, Fat: 0.2, Fiber: 2.4}
	banana := models.Food{Name: "Banana", ServingSize: 100, Calories: 89, Protein: 1.1, Carbs: 23, Fat: 0.3, Fiber: 2.6}

	t.Run("scales and sums across foods", func(t *testing.T) {
		got := Aggregate([]FoodQuantity{
			{Food: apple, Grams: 150},
			{Food: banana, Grams: 100},
		})
		// 52*1.5 + 89*1.0
		assert.InDelta(t, 167.0, got.Calories, 0.001)
		assert.InDelta(t, 14*1.5+23, got.Carbs, 0.001)
	})

	t.Run("duplicate foods each contribute", func(t *testing.T) {
		got := Aggregate([]FoodQuantity{
			{Food: apple, Grams: 100},
			{Food: apple, Grams: 100},
		})
		assert.InDelta(t, 104.0, got.Calories, 0.001)
	})

	t.Run("malformed food contributes zero without failing", func(t *testing.T) {
		broken := models.Food{Name: "Broken", ServingSize: 0, Calories: 999, Protein: 99}
		got := Aggregate([]FoodQuantity{
			{Food: broken, Grams: 150},
			{Food: apple, Grams: 100},
		})
		assert.InDelta(t, 52.0, got.Calories, 0.001)
		assert.InDelta(t, 0.3, got.Protein, 0.001)
	})

	t.Run("zero calories yields zero derived fields", func(t *testing.T) {
		water := models.Food{Name: "Water", ServingSize: 100, Carbs: 0}
		got := Aggregate([]FoodQuantity{{Food: water, Grams: 500}})
		assert.Zero(t, got.ProteinPct)
		assert.Zero(t, got.CarbsPct)
		assert.Zero(t, got.FatPct)
		assert.Zero(t, got.NetCarbs)
	})

	t.Run("empty input yields zero totals", func(t *testing.T) {
		got := Aggregate(nil)
		assert.Zero(t, got.Calories)
		assert.Zero(t, got.ProteinPct)
	})
}

func TestAggregateDerivedFields(t *testing.T) {
	// 100g food: 20g protein, 30g carbs (5g fiber), 10g fat, 290 kcal.
	food := models.Food{Name: "Mix", ServingSize: 100, Calories: 290, Protein: 20, Carbs: 30, Fat: 10, Fiber: 5}
	got := Aggregate([]FoodQuantity{{Food: food, Grams: 100}})

	assert.InDelta(t, 27.6, got.ProteinPct, 0.05) // 20*4/290*100
	assert.InDelta(t, 41.4, got.CarbsPct, 0.05)   // 30*4/290*100
	assert.InDelta(t, 31.0, got.FatPct, 0.05)     // 10*9/290*100
	assert.InDelta(t, 25.0, got.NetCarbs, 0.001)
}

func TestFinalizeSummedAcrossMeals(t *testing.T) {
	// Percentages must come from the grand total, not per-meal sums.
	a := models.Food{Name: "A", ServingSize: 100, Calories: 100, Protein: 25}
	b := models.Food{Name: "B", ServingSize: 100, Calories: 300, Fat: 20}

	var totals Totals
	totals.Sum([]FoodQuantity{{Food: a, Grams: 100}})
	totals.Sum([]FoodQuantity{{Food: b, Grams: 100}})
	totals.Finalize()

	assert.InDelta(t, 400.0, totals.Calories, 0.001)
	assert.InDelta(t, 25.0, totals.ProteinPct, 0.05) // 25*4/400*100
	assert.InDelta(t, 45.0, totals.FatPct, 0.05)     // 20*9/400*100
}
