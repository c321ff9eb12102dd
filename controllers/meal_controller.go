package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sstent/foodplanner-sub000/services"
)

// MealController exposes reusable meal definitions.
type MealController struct {
	meals *services.MealService
}

func NewMealController(meals *services.MealService) *MealController {
	return &MealController{meals: meals}
}

type mealRequest struct {
	Name     string                   `json:"name" binding:"required"`
	MealType string                   `json:"meal_type"`
	MealTime string                   `json:"meal_time"`
	Foods    []services.MealFoodInput `json:"foods"`
}

func (ctl *MealController) List(c *gin.Context) {
	meals, err := ctl.meals.ListMeals()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (ctl *MealController) Create(c *gin.Context) {
	var req mealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	meal, err := ctl.meals.CreateMeal(req.Name, req.MealType, req.MealTime, req.Foods)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (ctl *MealController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	meal, err := ctl.meals.GetMeal(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (ctl *MealController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req mealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	meal, err := ctl.meals.UpdateMeal(id, req.Name, req.MealType, req.MealTime, req.Foods)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (ctl *MealController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.meals.DeleteMeal(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (ctl *MealController) Nutrition(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	totals, err := ctl.meals.ComputeMealNutrition(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}
