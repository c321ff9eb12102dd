package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sstent/foodplanner-sub000/models"
	"github.com/sstent/foodplanner-sub000/utils"
	"gorm.io/gorm"
)

// BackupService snapshots the whole database to S3 and restores from a
// snapshot. Restores are destructive and run in one transaction.
type BackupService struct {
	db *gorm.DB
}

func NewBackupService(db *gorm.DB) *BackupService {
	return &BackupService{db: db}
}

// snapshot is the full logical content of the store.
type snapshot struct {
	CreatedAt        time.Time                `json:"created_at"`
	Foods            []models.Food            `json:"foods"`
	Meals            []models.Meal            `json:"meals"`
	MealFoods        []models.MealFood        `json:"meal_foods"`
	Templates        []models.Template        `json:"templates"`
	TemplateMeals    []models.TemplateMeal    `json:"template_meals"`
	WeeklyMenus      []models.WeeklyMenu      `json:"weekly_menus"`
	WeeklyMenuDays   []models.WeeklyMenuDay   `json:"weekly_menu_days"`
	Plans            []models.Plan            `json:"plans"`
	TrackedDays      []models.TrackedDay      `json:"tracked_days"`
	TrackedMeals     []models.TrackedMeal     `json:"tracked_meals"`
	TrackedMealFoods []models.TrackedMealFood `json:"tracked_meal_foods"`
}

// Backup serializes every table and uploads the snapshot, returning the
// stored object key.
func (s *BackupService) Backup() (string, error) {
	snap := snapshot{CreatedAt: time.Now().UTC()}
	for _, pair := range []struct {
		dest interface{}
	}{
		{&snap.Foods}, {&snap.Meals}, {&snap.MealFoods},
		{&snap.Templates}, {&snap.TemplateMeals},
		{&snap.WeeklyMenus}, {&snap.WeeklyMenuDays},
		{&snap.Plans}, {&snap.TrackedDays}, {&snap.TrackedMeals}, {&snap.TrackedMealFoods},
	} {
		if err := s.db.Find(pair.dest).Error; err != nil {
			return "", fmt.Errorf("failed to read table for snapshot: %w", err)
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	return utils.UploadSnapshot(data)
}

// ListBackups returns the available snapshot keys.
func (s *BackupService) ListBackups() ([]string, error) {
	return utils.ListSnapshots()
}

// Restore replaces the entire database content with a snapshot. All
// deletes and inserts commit together or not at all.
func (s *BackupService) Restore(key string) error {
	data, err := utils.DownloadSnapshot(key)
	if err != nil {
		return err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// Children before parents on the way out, parents before
		// children on the way back in.
		for _, m := range []interface{}{
			&models.TrackedMealFood{}, &models.TrackedMeal{}, &models.TrackedDay{},
			&models.Plan{}, &models.WeeklyMenuDay{}, &models.WeeklyMenu{},
			&models.TemplateMeal{}, &models.Template{},
			&models.MealFood{}, &models.Meal{}, &models.Food{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error; err != nil {
				return err
			}
		}

		inserts := []struct {
			rows interface{}
			n    int
		}{
			{&snap.Foods, len(snap.Foods)},
			{&snap.Meals, len(snap.Meals)},
			{&snap.MealFoods, len(snap.MealFoods)},
			{&snap.Templates, len(snap.Templates)},
			{&snap.TemplateMeals, len(snap.TemplateMeals)},
			{&snap.WeeklyMenus, len(snap.WeeklyMenus)},
			{&snap.WeeklyMenuDays, len(snap.WeeklyMenuDays)},
			{&snap.Plans, len(snap.Plans)},
			{&snap.TrackedDays, len(snap.TrackedDays)},
			{&snap.TrackedMeals, len(snap.TrackedMeals)},
			{&snap.TrackedMealFoods, len(snap.TrackedMealFoods)},
		}
		for _, ins := range inserts {
			if ins.n == 0 {
				continue
			}
			if err := tx.Create(ins.rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
