package services

import (
	"errors"
	"fmt"

	"github.com/sstent/foodplanner-sub000/models"
	"github.com/sstent/foodplanner-sub000/utils"
	"gorm.io/gorm"
)

// MealService handles reusable meal definitions and their nutrition.
type MealService struct {
	db *gorm.DB
}

func NewMealService(db *gorm.DB) *MealService {
	return &MealService{db: db}
}

// MealFoodInput is one food line in a create/update request.
type MealFoodInput struct {
	FoodID uint    `json:"food_id" binding:"required"`
	Grams  float64 `json:"grams"`
}

func (s *MealService) CreateMeal(name, mealType, mealTime string, foods []MealFoodInput) (*models.Meal, error) {
	if mealType == "" {
		mealType = models.MealTypeCustom
	}
	var meal models.Meal
	err := s.db.Transaction(func(tx *gorm.DB) error {
		meal = models.Meal{Name: name, MealType: mealType, MealTime: mealTime}
		if err := tx.Create(&meal).Error; err != nil {
			return err
		}
		return s.createMealFoods(tx, meal.ID, foods)
	})
	if err != nil {
		return nil, err
	}
	return s.GetMeal(meal.ID)
}

// createMealFoods validates every food line before inserting. The
// strict multiplier runs here so a food with a broken serving size is
// rejected at persist time instead of silently storing a quantity that
// can never scale.
func (s *MealService) createMealFoods(tx *gorm.DB, mealID uint, foods []MealFoodInput) error {
	for _, in := range foods {
		var food models.Food
		if err := tx.First(&food, in.FoodID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFoodNotFound
			}
			return err
		}
		if _, err := utils.StrictMultiplier(food.ServingSize, in.Grams); err != nil {
			return fmt.Errorf("food %q: %w", food.Name, err)
		}
		mf := models.MealFood{MealID: mealID, FoodID: in.FoodID, QuantityGrams: in.Grams}
		if err := tx.Create(&mf).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *MealService) GetMeal(id uint) (*models.Meal, error) {
	var meal models.Meal
	err := s.db.Preload("Foods.Food").First(&meal, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	return &meal, nil
}

func (s *MealService) ListMeals() ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.Preload("Foods.Food").Order("name ASC").Find(&meals).Error
	return meals, err
}

// UpdateMeal replaces the meal's food list wholesale: old MealFood rows
// are deleted and the submitted list recreated.
func (s *MealService) UpdateMeal(id uint, name, mealType, mealTime string, foods []MealFoodInput) (*models.Meal, error) {
	if _, err := s.GetMeal(id); err != nil {
		return nil, err
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"name": name, "meal_time": mealTime}
		if mealType != "" {
			updates["meal_type"] = mealType
		}
		if err := tx.Model(&models.Meal{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("meal_id = ?", id).Delete(&models.MealFood{}).Error; err != nil {
			return err
		}
		return s.createMealFoods(tx, id, foods)
	})
	if err != nil {
		return nil, err
	}
	return s.GetMeal(id)
}

// DeleteMeal removes a meal and its owned MealFood rows together.
// Deletion is refused while plans, templates or tracked days still
// reference the meal; orphaned references caused silent blank slots in
// day views.
func (s *MealService) DeleteMeal(id uint) error {
	if _, err := s.GetMeal(id); err != nil {
		return err
	}
	for _, ref := range []interface{}{&models.Plan{}, &models.TemplateMeal{}, &models.TrackedMeal{}} {
		var count int64
		if err := s.db.Model(ref).Where("meal_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrMealInUse
		}
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("meal_id = ?", id).Delete(&models.MealFood{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Meal{}, id).Error
	})
}

// ComputeMealNutrition aggregates the meal's base food list.
func (s *MealService) ComputeMealNutrition(id uint) (utils.Totals, error) {
	meal, err := s.GetMeal(id)
	if err != nil {
		return utils.Totals{}, err
	}
	pairs := make([]utils.FoodQuantity, 0, len(meal.Foods))
	for _, mf := range meal.Foods {
		pairs = append(pairs, utils.FoodQuantity{Food: mf.Food, Grams: mf.QuantityGrams})
	}
	return utils.Aggregate(pairs), nil
}
