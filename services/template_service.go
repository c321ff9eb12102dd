package services

import (
	"errors"
	"time"

	"github.com/sstent/foodplanner-sub000/models"
	"gorm.io/gorm"
)

// TemplateService handles templates, weekly menus, plans, and the
// expansion of templates/menus onto concrete dates.
type TemplateService struct {
	db       *gorm.DB
	tracking *TrackingService
}

func NewTemplateService(db *gorm.DB, tracking *TrackingService) *TemplateService {
	return &TemplateService{db: db, tracking: tracking}
}

// TemplateMealInput is one slot assignment in a template request.
type TemplateMealInput struct {
	MealID   uint   `json:"meal_id" binding:"required"`
	MealTime string `json:"meal_time"`
}

// MenuDayInput assigns a template to a day of the week (0–6 from the
// week start).
type MenuDayInput struct {
	DayOfWeek  int  `json:"day_of_week"`
	TemplateID uint `json:"template_id" binding:"required"`
}

func (s *TemplateService) CreateTemplate(name string, meals []TemplateMealInput) (*models.Template, error) {
	if err := s.checkTemplateNameFree(name, 0); err != nil {
		return nil, err
	}
	var tpl models.Template
	err := s.db.Transaction(func(tx *gorm.DB) error {
		tpl = models.Template{Name: name}
		if err := tx.Create(&tpl).Error; err != nil {
			return err
		}
		return s.createTemplateMeals(tx, tpl.ID, meals)
	})
	if err != nil {
		return nil, err
	}
	return s.GetTemplate(tpl.ID)
}

func (s *TemplateService) createTemplateMeals(tx *gorm.DB, templateID uint, meals []TemplateMealInput) error {
	for i, in := range meals {
		var meal models.Meal
		if err := tx.First(&meal, in.MealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMealNotFound
			}
			return err
		}
		mealTime := in.MealTime
		if mealTime == "" {
			mealTime = meal.MealTime
		}
		tm := models.TemplateMeal{TemplateID: templateID, MealID: in.MealID, MealTime: mealTime, Position: i}
		if err := tx.Create(&tm).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *TemplateService) GetTemplate(id uint) (*models.Template, error) {
	var tpl models.Template
	err := s.db.Preload("Meals", func(db *gorm.DB) *gorm.DB {
		return db.Order("template_meals.position ASC")
	}).Preload("Meals.Meal.Foods.Food").First(&tpl, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

func (s *TemplateService) ListTemplates() ([]models.Template, error) {
	var tpls []models.Template
	err := s.db.Preload("Meals", func(db *gorm.DB) *gorm.DB {
		return db.Order("template_meals.position ASC")
	}).Preload("Meals.Meal").Order("name ASC").Find(&tpls).Error
	return tpls, err
}

func (s *TemplateService) UpdateTemplate(id uint, name string, meals []TemplateMealInput) (*models.Template, error) {
	if _, err := s.GetTemplate(id); err != nil {
		return nil, err
	}
	if err := s.checkTemplateNameFree(name, id); err != nil {
		return nil, err
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Template{}).Where("id = ?", id).Update("name", name).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", id).Delete(&models.TemplateMeal{}).Error; err != nil {
			return err
		}
		return s.createTemplateMeals(tx, id, meals)
	})
	if err != nil {
		return nil, err
	}
	return s.GetTemplate(id)
}

// DeleteTemplate removes the template with its owned slot rows and any
// weekly-menu day referencing it, so menus never point at a ghost.
// Hard deletes throughout: a soft-deleted template would keep holding
// its unique name.
func (s *TemplateService) DeleteTemplate(id uint) error {
	if _, err := s.GetTemplate(id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("template_id = ?", id).Delete(&models.TemplateMeal{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("template_id = ?", id).Delete(&models.WeeklyMenuDay{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Template{}, id).Error
	})
}

func (s *TemplateService) checkTemplateNameFree(name string, excludeID uint) error {
	var count int64
	q := s.db.Model(&models.Template{}).Where("name = ?", name)
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

func (s *TemplateService) CreateMenu(name string, days []MenuDayInput) (*models.WeeklyMenu, error) {
	if err := s.checkMenuNameFree(name, 0); err != nil {
		return nil, err
	}
	var menu models.WeeklyMenu
	err := s.db.Transaction(func(tx *gorm.DB) error {
		menu = models.WeeklyMenu{Name: name}
		if err := tx.Create(&menu).Error; err != nil {
			return err
		}
		return s.createMenuDays(tx, menu.ID, days)
	})
	if err != nil {
		return nil, err
	}
	return s.GetMenu(menu.ID)
}

func (s *TemplateService) createMenuDays(tx *gorm.DB, menuID uint, days []MenuDayInput) error {
	for _, in := range days {
		if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
			return errors.New("day_of_week must be 0-6")
		}
		var tpl models.Template
		if err := tx.First(&tpl, in.TemplateID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTemplateNotFound
			}
			return err
		}
		day := models.WeeklyMenuDay{WeeklyMenuID: menuID, DayOfWeek: in.DayOfWeek, TemplateID: in.TemplateID}
		if err := tx.Create(&day).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *TemplateService) GetMenu(id uint) (*models.WeeklyMenu, error) {
	var menu models.WeeklyMenu
	err := s.db.Preload("Days", func(db *gorm.DB) *gorm.DB {
		return db.Order("weekly_menu_days.day_of_week ASC")
	}).Preload("Days.Template.Meals.Meal").First(&menu, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}
	return &menu, nil
}

func (s *TemplateService) ListMenus() ([]models.WeeklyMenu, error) {
	var menus []models.WeeklyMenu
	err := s.db.Preload("Days").Order("name ASC").Find(&menus).Error
	return menus, err
}

func (s *TemplateService) UpdateMenu(id uint, name string, days []MenuDayInput) (*models.WeeklyMenu, error) {
	if _, err := s.GetMenu(id); err != nil {
		return nil, err
	}
	if err := s.checkMenuNameFree(name, id); err != nil {
		return nil, err
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.WeeklyMenu{}).Where("id = ?", id).Update("name", name).Error; err != nil {
			return err
		}
		if err := tx.Where("weekly_menu_id = ?", id).Delete(&models.WeeklyMenuDay{}).Error; err != nil {
			return err
		}
		return s.createMenuDays(tx, id, days)
	})
	if err != nil {
		return nil, err
	}
	return s.GetMenu(id)
}

func (s *TemplateService) DeleteMenu(id uint) error {
	if _, err := s.GetMenu(id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("weekly_menu_id = ?", id).Delete(&models.WeeklyMenuDay{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.WeeklyMenu{}, id).Error
	})
}

func (s *TemplateService) checkMenuNameFree(name string, excludeID uint) error {
	var count int64
	q := s.db.Model(&models.WeeklyMenu{}).Where("name = ?", name)
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

// ApplyTemplate replaces the tracked day's meals with the template's
// assignments. Full replace, not merge: whatever was tracked before is
// cleared, and the day is marked modified because it now diverges from
// whatever plan seeded it.
func (s *TemplateService) ApplyTemplate(templateID uint, person string, date time.Time) (*models.TrackedDay, error) {
	tpl, err := s.GetTemplate(templateID)
	if err != nil {
		return nil, err
	}
	var dayID uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		day, err := s.tracking.getOrCreateDay(tx, person, date)
		if err != nil {
			return err
		}
		dayID = day.ID
		if err := clearDayMeals(tx, day.ID); err != nil {
			return err
		}
		for _, tm := range tpl.Meals {
			tracked := models.TrackedMeal{TrackedDayID: day.ID, MealID: tm.MealID, MealTime: tm.MealTime}
			if err := tx.Create(&tracked).Error; err != nil {
				return err
			}
		}
		return markDayModified(tx, day.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.tracking.loadDay(dayID)
}

// MenuApplyResult reports a weekly-menu application. When
// NeedsConfirmation is set nothing was written; the caller must retry
// with the overwrite confirmed.
type MenuApplyResult struct {
	NeedsConfirmation bool `json:"needs_confirmation"`
	ExistingPlans     int  `json:"existing_plans,omitempty"`
	PlansCreated      int  `json:"plans_created,omitempty"`
}

// ApplyWeeklyMenu expands a menu into plan rows for the week starting
// at weekStart. If the target week already holds plans for the person
// the apply is two-phase: the first call reports needs-confirmation and
// writes nothing, guarding a week of manual edits from a misclick.
func (s *TemplateService) ApplyWeeklyMenu(menuID uint, person string, weekStart time.Time, confirmOverwrite bool) (*MenuApplyResult, error) {
	menu, err := s.GetMenu(menuID)
	if err != nil {
		return nil, err
	}
	weekStart = dateOnly(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 7)

	var existing int64
	err = s.db.Model(&models.Plan{}).
		Where("person = ? AND date >= ? AND date < ?", person, weekStart, weekEnd).
		Count(&existing).Error
	if err != nil {
		return nil, err
	}
	if existing > 0 && !confirmOverwrite {
		return &MenuApplyResult{NeedsConfirmation: true, ExistingPlans: int(existing)}, nil
	}

	created := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if existing > 0 {
			err := tx.Where("person = ? AND date >= ? AND date < ?", person, weekStart, weekEnd).
				Delete(&models.Plan{}).Error
			if err != nil {
				return err
			}
		}
		for _, day := range menu.Days {
			target := weekStart.AddDate(0, 0, day.DayOfWeek)
			for _, tm := range day.Template.Meals {
				plan := models.Plan{Person: person, Date: target, MealID: tm.MealID, MealTime: tm.MealTime}
				if err := tx.Create(&plan).Error; err != nil {
					return err
				}
				created++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &MenuApplyResult{PlansCreated: created}, nil
}

// CreatePlan schedules one meal on a date. Multiple plans may share a
// slot; each is one item in it.
func (s *TemplateService) CreatePlan(person string, date time.Time, mealID uint, mealTime string) (*models.Plan, error) {
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
	plan := models.Plan{Person: person, Date: dateOnly(date), MealID: mealID, MealTime: mealTime}
	if err := s.db.Create(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *TemplateService) ListPlans(person string, date time.Time) ([]models.Plan, error) {
	var plans []models.Plan
	err := s.db.Preload("Meal.Foods.Food").
		Where("person = ? AND date = ?", person, dateOnly(date)).
		Order("id ASC").
		Find(&plans).Error
	return plans, err
}

func (s *TemplateService) DeletePlan(id uint) error {
	res := s.db.Delete(&models.Plan{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}
