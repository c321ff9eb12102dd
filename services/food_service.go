package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sstent/foodplanner-sub000/models"
	"gorm.io/gorm"
)

// FoodService handles the food catalog: CRUD, uniqueness checks and CSV
// bulk import.
type FoodService struct {
	db *gorm.DB
}

func NewFoodService(db *gorm.DB) *FoodService {
	return &FoodService{db: db}
}

func (s *FoodService) CreateFood(food *models.Food) error {
	if food.Source == "" {
		food.Source = models.FoodSourceManual
	}
	if err := s.checkNameFree(food.Name, 0); err != nil {
		return err
	}
	return s.db.Create(food).Error
}

func (s *FoodService) GetFood(id uint) (*models.Food, error) {
	var food models.Food
	if err := s.db.First(&food, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}
	return &food, nil
}

func (s *FoodService) ListFoods() ([]models.Food, error) {
	var foods []models.Food
	err := s.db.Order("name ASC").Find(&foods).Error
	return foods, err
}

func (s *FoodService) UpdateFood(id uint, updated models.Food) (*models.Food, error) {
	food, err := s.GetFood(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkNameFree(updated.Name, id); err != nil {
		return nil, err
	}
	food.Name = updated.Name
	food.Brand = updated.Brand
	food.ServingSize = updated.ServingSize
	food.Calories = updated.Calories
	food.Protein = updated.Protein
	food.Carbs = updated.Carbs
	food.Fat = updated.Fat
	food.Fiber = updated.Fiber
	food.Sugar = updated.Sugar
	food.Sodium = updated.Sodium
	food.Calcium = updated.Calcium
	if err := s.db.Save(food).Error; err != nil {
		return nil, err
	}
	return food, nil
}

// DeleteFood refuses to delete a food still referenced by meals or
// tracked overrides, so those rows can never dangle.
func (s *FoodService) DeleteFood(id uint) error {
	if _, err := s.GetFood(id); err != nil {
		return err
	}
	var refs int64
	if err := s.db.Model(&models.MealFood{}).Where("food_id = ?", id).Count(&refs).Error; err != nil {
		return err
	}
	if refs == 0 {
		if err := s.db.Model(&models.TrackedMealFood{}).Where("food_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
	}
	if refs > 0 {
		return ErrFoodInUse
	}
	// Hard delete: a soft-deleted ghost would keep holding the unique
	// name and break recreating the food later.
	return s.db.Unscoped().Delete(&models.Food{}, id).Error
}

// checkNameFree is the duplicate-name precondition, run before any
// write so a conflict never leaves partial state. excludeID skips the
// row being updated.
func (s *FoodService) checkNameFree(name string, excludeID uint) error {
	var count int64
	q := s.db.Model(&models.Food{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateName
	}
	return nil
}

// CSVImportResult reports the outcome of a bulk food import.
type CSVImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// csvColumns is the expected header, in order:
// name,brand,serving_size,calories,protein,carbs,fat,fiber,sugar,sodium,calcium
const csvColumnCount = 11

// ImportCSV loads foods from a CSV stream. Rows with unparseable
// numbers or duplicate names are skipped and reported, never fatal: a
// half-good export should still import its good half. Imported rows
// are committed in one transaction.
func (s *FoodService) ImportCSV(r io.Reader) (*CSVImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = csvColumnCount

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if strings.ToLower(strings.TrimSpace(header[0])) != "name" {
		return nil, fmt.Errorf("unexpected CSV header %q", header[0])
	}

	result := &CSVImportResult{}
	var foods []models.Food
	seen := make(map[string]bool)
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		food, err := parseCSVFood(record)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		// Duplicates within the file would all pass the database check
		// and then fail the batched insert as a whole.
		if seen[food.Name] {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %s: %v", line, food.Name, ErrDuplicateName))
			continue
		}
		if err := s.checkNameFree(food.Name, 0); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %s: %v", line, food.Name, err))
			continue
		}
		seen[food.Name] = true
		foods = append(foods, food)
	}

	if len(foods) > 0 {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&foods).Error
		})
		if err != nil {
			return nil, fmt.Errorf("failed to import foods: %w", err)
		}
	}
	result.Imported = len(foods)
	return result, nil
}

func parseCSVFood(record []string) (models.Food, error) {
	food := models.Food{
		Name:   strings.TrimSpace(record[0]),
		Brand:  strings.TrimSpace(record[1]),
		Source: models.FoodSourceCSV,
	}
	if food.Name == "" {
		return food, fmt.Errorf("empty name")
	}
	nums := make([]float64, 0, csvColumnCount-2)
	for _, raw := range record[2:] {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			nums = append(nums, 0)
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return food, fmt.Errorf("bad number %q", raw)
		}
		nums = append(nums, v)
	}
	food.ServingSize = nums[0]
	food.Calories = nums[1]
	food.Protein = nums[2]
	food.Carbs = nums[3]
	food.Fat = nums[4]
	food.Fiber = nums[5]
	food.Sugar = nums[6]
	food.Sodium = nums[7]
	food.Calcium = nums[8]
	return food, nil
}
