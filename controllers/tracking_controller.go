package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sstent/foodplanner-sub000/models"
	"github.com/sstent/foodplanner-sub000/services"
)

// TrackingController exposes tracked days, tracked meals and the
// override update operation.
type TrackingController struct {
	tracking *services.TrackingService
}

func NewTrackingController(tracking *services.TrackingService) *TrackingController {
	return &TrackingController{tracking: tracking}
}

// trackedMealView is a tracked meal with its effective food list
// resolved for display.
type trackedMealView struct {
	ID       uint                    `json:"id"`
	MealID   uint                    `json:"meal_id"`
	MealName string                  `json:"meal_name"`
	MealTime string                  `json:"meal_time"`
	Foods    []services.ResolvedFood `json:"foods"`
}

type trackedDayView struct {
	ID         uint              `json:"id"`
	Person     string            `json:"person"`
	Date       string            `json:"date"`
	IsModified bool              `json:"is_modified"`
	Meals      []trackedMealView `json:"meals"`
}

// GetDay returns (creating if needed) the tracked day with every meal's
// effective food list.
func (ctl *TrackingController) GetDay(c *gin.Context) {
	person, date, ok := personAndDate(c)
	if !ok {
		return
	}
	day, err := ctl.tracking.GetOrCreateTrackedDay(person, date)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := ctl.dayView(day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ctl *TrackingController) dayView(day *models.TrackedDay) (*trackedDayView, error) {
	view := &trackedDayView{
		ID:         day.ID,
		Person:     day.Person,
		Date:       day.Date.Format("2006-01-02"),
		IsModified: day.IsModified,
		Meals:      make([]trackedMealView, 0, len(day.Meals)),
	}
	for _, tm := range day.Meals {
		foods, err := ctl.tracking.ResolveTrackedMealFoods(tm.ID)
		if err != nil {
			return nil, err
		}
		view.Meals = append(view.Meals, trackedMealView{
			ID:       tm.ID,
			MealID:   tm.MealID,
			MealName: tm.Meal.Name,
			MealTime: tm.MealTime,
			Foods:    foods,
		})
	}
	return view, nil
}

// ResetDay clears the day back to its plan.
func (ctl *TrackingController) ResetDay(c *gin.Context) {
	var req struct {
		Person string `json:"person" binding:"required"`
		Date   string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, ok := parseDate(c, req.Date)
	if !ok {
		return
	}
	day, err := ctl.tracking.ResetTrackedDay(req.Person, date)
	if err != nil {
		respondError(c, err)
		return
	}
	view, err := ctl.dayView(day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (ctl *TrackingController) AddMeal(c *gin.Context) {
	var req struct {
		Person   string `json:"person" binding:"required"`
		Date     string `json:"date" binding:"required"`
		MealID   uint   `json:"meal_id" binding:"required"`
		MealTime string `json:"meal_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, ok := parseDate(c, req.Date)
	if !ok {
		return
	}
	tm, err := ctl.tracking.AddTrackedMeal(req.Person, date, req.MealID, req.MealTime)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tm)
}

func (ctl *TrackingController) RemoveMeal(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.tracking.RemoveTrackedMeal(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateMealFoods applies an override update to one tracked meal and
// returns the new effective food list.
func (ctl *TrackingController) UpdateMealFoods(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		Entries        []services.TrackedFoodEntry `json:"entries"`
		RemovedFoodIDs []uint                      `json:"removed_food_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := ctl.tracking.ApplyTrackedMealFoodUpdate(id, req.Entries, req.RemovedFoodIDs); err != nil {
		respondError(c, err)
		return
	}
	foods, err := ctl.tracking.ResolveTrackedMealFoods(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

// Nutrition returns tracked-mode day totals.
func (ctl *TrackingController) Nutrition(c *gin.Context) {
	person, date, ok := personAndDate(c)
	if !ok {
		return
	}
	totals, err := ctl.tracking.TrackedDayNutrition(person, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}
