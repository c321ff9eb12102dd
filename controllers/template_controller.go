package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sstent/foodplanner-sub000/services"
)

// TemplateController exposes templates, weekly menus and plans.
type TemplateController struct {
	templates *services.TemplateService
	tracking  *services.TrackingService
}

func NewTemplateController(templates *services.TemplateService, tracking *services.TrackingService) *TemplateController {
	return &TemplateController{templates: templates, tracking: tracking}
}

type templateRequest struct {
	Name  string                       `json:"name" binding:"required"`
	Meals []services.TemplateMealInput `json:"meals"`
}

type menuRequest struct {
	Name string                  `json:"name" binding:"required"`
	Days []services.MenuDayInput `json:"days"`
}

func (ctl *TemplateController) ListTemplates(c *gin.Context) {
	tpls, err := ctl.templates.ListTemplates()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpls)
}

func (ctl *TemplateController) CreateTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tpl, err := ctl.templates.CreateTemplate(req.Name, req.Meals)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

func (ctl *TemplateController) GetTemplate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tpl, err := ctl.templates.GetTemplate(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (ctl *TemplateController) UpdateTemplate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tpl, err := ctl.templates.UpdateTemplate(id, req.Name, req.Meals)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (ctl *TemplateController) DeleteTemplate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.templates.DeleteTemplate(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ApplyTemplate expands a template onto a person's tracked day.
func (ctl *TemplateController) ApplyTemplate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
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
	day, err := ctl.templates.ApplyTemplate(id, req.Person, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

func (ctl *TemplateController) ListMenus(c *gin.Context) {
	menus, err := ctl.templates.ListMenus()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menus)
}

func (ctl *TemplateController) CreateMenu(c *gin.Context) {
	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	menu, err := ctl.templates.CreateMenu(req.Name, req.Days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, menu)
}

func (ctl *TemplateController) GetMenu(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	menu, err := ctl.templates.GetMenu(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (ctl *TemplateController) UpdateMenu(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req menuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	menu, err := ctl.templates.UpdateMenu(id, req.Name, req.Days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

func (ctl *TemplateController) DeleteMenu(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.templates.DeleteMenu(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ApplyMenu expands a weekly menu into plan rows for a week. Returns
// 409 with needs_confirmation when the target week already has plans
// and the overwrite was not confirmed.
func (ctl *TemplateController) ApplyMenu(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req struct {
		Person           string `json:"person" binding:"required"`
		WeekStart        string `json:"week_start" binding:"required"`
		ConfirmOverwrite bool   `json:"confirm_overwrite"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	weekStart, ok := parseDate(c, req.WeekStart)
	if !ok {
		return
	}
	result, err := ctl.templates.ApplyWeeklyMenu(id, req.Person, weekStart, req.ConfirmOverwrite)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.NeedsConfirmation {
		c.JSON(http.StatusConflict, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ctl *TemplateController) ListPlans(c *gin.Context) {
	person, date, ok := personAndDate(c)
	if !ok {
		return
	}
	plans, err := ctl.templates.ListPlans(person, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (ctl *TemplateController) CreatePlan(c *gin.Context) {
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
	plan, err := ctl.templates.CreatePlan(req.Person, date, req.MealID, req.MealTime)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (ctl *TemplateController) DeletePlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.templates.DeletePlan(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PlanNutrition returns planned-mode day totals.
func (ctl *TemplateController) PlanNutrition(c *gin.Context) {
	person, date, ok := personAndDate(c)
	if !ok {
		return
	}
	totals, err := ctl.tracking.PlannedDayNutrition(person, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}
