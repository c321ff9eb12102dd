package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sstent/foodplanner-sub000/models"
	"github.com/sstent/foodplanner-sub000/utils"
	"gorm.io/gorm"
)

// TrackingService owns the tracked-day lifecycle and the override
// resolver: the rules that merge a shared meal's food list with one
// day's additions, quantity overrides and deletions.
//
// Concurrent edits to the same tracked meal resolve last-write-wins at
// commit; the deployment is a handful of household members editing
// their own days, so no optimistic-concurrency token is carried.
type TrackingService struct {
	db *gorm.DB
}

func NewTrackingService(db *gorm.DB) *TrackingService {
	return &TrackingService{db: db}
}

// TrackedFoodEntry is one target line in an override update.
type TrackedFoodEntry struct {
	FoodID uint    `json:"food_id" binding:"required"`
	Grams  float64 `json:"grams"`
}

// ResolvedFood is one line of a tracked meal's effective food list.
// IsCustom marks foods added on top of the base meal.
type ResolvedFood struct {
	Food          models.Food `json:"food"`
	QuantityGrams float64     `json:"quantity_grams"`
	IsCustom      bool        `json:"is_custom"`
}

// dateOnly truncates to midnight UTC; dates are compared as calendar
// days everywhere.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetOrCreateTrackedDay returns the tracked day for (person, date),
// materializing it from that date's plans the first time it is opened.
func (s *TrackingService) GetOrCreateTrackedDay(person string, date time.Time) (*models.TrackedDay, error) {
	var day *models.TrackedDay
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		day, err = s.getOrCreateDay(tx, person, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.loadDay(day.ID)
}

func (s *TrackingService) getOrCreateDay(tx *gorm.DB, person string, date time.Time) (*models.TrackedDay, error) {
	date = dateOnly(date)
	var day models.TrackedDay
	err := tx.Where("person = ? AND date = ?", person, date).First(&day).Error
	if err == nil {
		return &day, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	day = models.TrackedDay{Person: person, Date: date}
	if err := tx.Create(&day).Error; err != nil {
		return nil, err
	}
	if err := s.seedFromPlans(tx, &day); err != nil {
		return nil, err
	}
	return &day, nil
}

// seedFromPlans copies the date's plan rows into tracked meals so the
// day starts out matching the plan.
func (s *TrackingService) seedFromPlans(tx *gorm.DB, day *models.TrackedDay) error {
	var plans []models.Plan
	if err := tx.Where("person = ? AND date = ?", day.Person, day.Date).Order("id ASC").Find(&plans).Error; err != nil {
		return err
	}
	for _, p := range plans {
		tm := models.TrackedMeal{TrackedDayID: day.ID, MealID: p.MealID, MealTime: p.MealTime}
		if err := tx.Create(&tm).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *TrackingService) loadDay(id uint) (*models.TrackedDay, error) {
	var day models.TrackedDay
	err := s.db.Preload("Meals.Meal.Foods.Food").Preload("Meals.Foods.Food").First(&day, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackedDayNotFound
		}
		return nil, err
	}
	return &day, nil
}

// ResetTrackedDay throws away every tracked meal and override for the
// day and reseeds from the plan, clearing the modified flag. This is
// the only transition that sets is_modified back to false.
func (s *TrackingService) ResetTrackedDay(person string, date time.Time) (*models.TrackedDay, error) {
	var dayID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		day, err := s.getOrCreateDay(tx, person, date)
		if err != nil {
			return err
		}
		dayID = day.ID
		if err := clearDayMeals(tx, day.ID); err != nil {
			return err
		}
		if err := s.seedFromPlans(tx, day); err != nil {
			return err
		}
		return tx.Model(&models.TrackedDay{}).Where("id = ?", day.ID).Update("is_modified", false).Error
	})
	if err != nil {
		return nil, err
	}
	return s.loadDay(dayID)
}

// clearDayMeals deletes a day's tracked meals together with their
// override rows, oldest-owned rows first.
func clearDayMeals(tx *gorm.DB, dayID uint) error {
	var mealIDs []uint
	if err := tx.Model(&models.TrackedMeal{}).Where("tracked_day_id = ?", dayID).Pluck("id", &mealIDs).Error; err != nil {
		return err
	}
	if len(mealIDs) == 0 {
		return nil
	}
	if err := tx.Where("tracked_meal_id IN ?", mealIDs).Delete(&models.TrackedMealFood{}).Error; err != nil {
		return err
	}
	return tx.Where("tracked_day_id = ?", dayID).Delete(&models.TrackedMeal{}).Error
}

// AddTrackedMeal puts one more meal instance on a day.
func (s *TrackingService) AddTrackedMeal(person string, date time.Time, mealID uint, mealTime string) (*models.TrackedMeal, error) {
	var meal models.Meal
	if err := s.db.First(&meal, mealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	if mealTime == "" {
		mealTime = meal.MealTime
	}

	var tm models.TrackedMeal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		day, err := s.getOrCreateDay(tx, person, date)
		if err != nil {
			return err
		}
		tm = models.TrackedMeal{TrackedDayID: day.ID, MealID: mealID, MealTime: mealTime}
		if err := tx.Create(&tm).Error; err != nil {
			return err
		}
		return markDayModified(tx, day.ID)
	})
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

// RemoveTrackedMeal deletes a tracked meal and its override rows.
func (s *TrackingService) RemoveTrackedMeal(id uint) error {
	tm, err := s.getTrackedMeal(s.db, id)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tracked_meal_id = ?", id).Delete(&models.TrackedMealFood{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.TrackedMeal{}, id).Error; err != nil {
			return err
		}
		return markDayModified(tx, tm.TrackedDayID)
	})
}

func (s *TrackingService) getTrackedMeal(tx *gorm.DB, id uint) (*models.TrackedMeal, error) {
	var tm models.TrackedMeal
	if err := tx.First(&tm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackedMealNotFound
		}
		return nil, err
	}
	return &tm, nil
}

func markDayModified(tx *gorm.DB, dayID uint) error {
	return tx.Model(&models.TrackedDay{}).Where("id = ?", dayID).Update("is_modified", true).Error
}

// ResolveTrackedMealFoods computes the effective food list for a
// tracked meal: the base meal's foods minus deletions, with overridden
// quantities substituted, then additions appended in insertion order.
// This is the one canonical merge; it is recomputed on every read and
// never stored.
func (s *TrackingService) ResolveTrackedMealFoods(trackedMealID uint) ([]ResolvedFood, error) {
	tm, err := s.getTrackedMeal(s.db, trackedMealID)
	if err != nil {
		return nil, err
	}
	return s.resolve(s.db, tm)
}

func (s *TrackingService) resolve(tx *gorm.DB, tm *models.TrackedMeal) ([]ResolvedFood, error) {
	var base []models.MealFood
	if err := tx.Preload("Food").Where("meal_id = ?", tm.MealID).Order("id ASC").Find(&base).Error; err != nil {
		return nil, err
	}
	var overrides []models.TrackedMealFood
	if err := tx.Preload("Food").Where("tracked_meal_id = ?", tm.ID).Order("id ASC").Find(&overrides).Error; err != nil {
		return nil, err
	}

	byFood := make(map[uint]models.TrackedMealFood, len(overrides))
	for _, ov := range overrides {
		byFood[ov.FoodID] = ov
	}

	out := make([]ResolvedFood, 0, len(base)+len(overrides))
	for _, mf := range base {
		ov, ok := byFood[mf.FoodID]
		if ok && ov.State == models.OverrideStateDeleted {
			continue
		}
		grams := mf.QuantityGrams
		if ok && ov.State == models.OverrideStateOverride {
			grams = ov.QuantityGrams
		}
		out = append(out, ResolvedFood{Food: mf.Food, QuantityGrams: grams})
	}
	for _, ov := range overrides {
		if ov.State == models.OverrideStateAdded {
			out = append(out, ResolvedFood{Food: ov.Food, QuantityGrams: ov.QuantityGrams, IsCustom: true})
		}
	}
	return out, nil
}

// ApplyTrackedMealFoodUpdate transitions the tracked meal's override
// rows toward the submitted target list. Each (meal, food) pair keeps
// at most one row, so every transition searches before it writes;
// replaying the same payload is a no-op. The base meal's own rows are
// shared across every day referencing the meal and are never touched.
func (s *TrackingService) ApplyTrackedMealFoodUpdate(trackedMealID uint, entries []TrackedFoodEntry, removedFoodIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		tm, err := s.getTrackedMeal(tx, trackedMealID)
		if err != nil {
			return err
		}

		var base []models.MealFood
		if err := tx.Preload("Food").Where("meal_id = ?", tm.MealID).Find(&base).Error; err != nil {
			return err
		}
		baseByFood := make(map[uint]models.MealFood, len(base))
		for _, mf := range base {
			baseByFood[mf.FoodID] = mf
		}

		for _, entry := range entries {
			mf, inBase := baseByFood[entry.FoodID]
			var food models.Food
			if inBase {
				food = mf.Food
			} else if err := tx.First(&food, entry.FoodID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrFoodNotFound
				}
				return err
			}
			if _, err := utils.StrictMultiplier(food.ServingSize, entry.Grams); err != nil {
				return fmt.Errorf("food %q: %w", food.Name, err)
			}

			switch {
			case !inBase:
				err = upsertOverride(tx, trackedMealID, entry.FoodID, models.OverrideStateAdded, entry.Grams)
			case entry.Grams == mf.QuantityGrams:
				// Back to the base quantity: drop any override row so
				// the pair returns to its base state.
				err = deleteOverride(tx, trackedMealID, entry.FoodID)
			default:
				err = upsertOverride(tx, trackedMealID, entry.FoodID, models.OverrideStateOverride, entry.Grams)
			}
			if err != nil {
				return err
			}
		}

		for _, foodID := range removedFoodIDs {
			if _, inBase := baseByFood[foodID]; inBase {
				if err := upsertOverride(tx, trackedMealID, foodID, models.OverrideStateDeleted, 0); err != nil {
					return err
				}
			} else if err := deleteOverride(tx, trackedMealID, foodID); err != nil {
				return err
			}
		}

		return markDayModified(tx, tm.TrackedDayID)
	})
}

// upsertOverride is the search-then-update that keeps the one-row-per-
// food invariant. Blind inserts here made the effective list ambiguous.
func upsertOverride(tx *gorm.DB, trackedMealID, foodID uint, state string, grams float64) error {
	var row models.TrackedMealFood
	err := tx.Where("tracked_meal_id = ? AND food_id = ?", trackedMealID, foodID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.TrackedMealFood{
			TrackedMealID: trackedMealID,
			FoodID:        foodID,
			QuantityGrams: grams,
			State:         state,
		}
		return tx.Create(&row).Error
	}
	if err != nil {
		return err
	}
	row.QuantityGrams = grams
	row.State = state
	return tx.Save(&row).Error
}

func deleteOverride(tx *gorm.DB, trackedMealID, foodID uint) error {
	return tx.Where("tracked_meal_id = ? AND food_id = ?", trackedMealID, foodID).Delete(&models.TrackedMealFood{}).Error
}

// TrackedDayNutrition sums the effective food lists of every meal
// tracked on the date. Percentages are derived once on the grand total;
// they are not additive across meals.
func (s *TrackingService) TrackedDayNutrition(person string, date time.Time) (utils.Totals, error) {
	var totals utils.Totals
	var day models.TrackedDay
	err := s.db.Where("person = ? AND date = ?", person, dateOnly(date)).First(&day).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		totals.Finalize()
		return totals, nil
	}
	if err != nil {
		return totals, err
	}

	var meals []models.TrackedMeal
	if err := s.db.Where("tracked_day_id = ?", day.ID).Order("id ASC").Find(&meals).Error; err != nil {
		return totals, err
	}
	for i := range meals {
		resolved, err := s.resolve(s.db, &meals[i])
		if err != nil {
			return totals, err
		}
		pairs := make([]utils.FoodQuantity, 0, len(resolved))
		for _, rf := range resolved {
			pairs = append(pairs, utils.FoodQuantity{Food: rf.Food, Grams: rf.QuantityGrams})
		}
		totals.Sum(pairs)
	}
	totals.Finalize()
	return totals, nil
}

// PlannedDayNutrition sums the base meal lists of the date's plans.
// Plans carry no overrides, so the meal definitions are used as-is.
func (s *TrackingService) PlannedDayNutrition(person string, date time.Time) (utils.Totals, error) {
	var totals utils.Totals
	var plans []models.Plan
	err := s.db.Preload("Meal.Foods.Food").
		Where("person = ? AND date = ?", person, dateOnly(date)).
		Order("id ASC").
		Find(&plans).Error
	if err != nil {
		return totals, err
	}
	for _, p := range plans {
		pairs := make([]utils.FoodQuantity, 0, len(p.Meal.Foods))
		for _, mf := range p.Meal.Foods {
			pairs = append(pairs, utils.FoodQuantity{Food: mf.Food, Grams: mf.QuantityGrams})
		}
		totals.Sum(pairs)
	}
	totals.Finalize()
	return totals, nil
}
