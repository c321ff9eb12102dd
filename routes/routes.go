package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sstent/foodplanner-sub000/controllers"
	"github.com/sstent/foodplanner-sub000/middlewares"
	"github.com/sstent/foodplanner-sub000/services"
)

// SetupRouter wires services and controllers around the shared DB
// handle and registers every route.
func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger())

	foodSvc := services.NewFoodService(db)
	mealSvc := services.NewMealService(db)
	trackingSvc := services.NewTrackingService(db)
	templateSvc := services.NewTemplateService(db, trackingSvc)
	backupSvc := services.NewBackupService(db)
	offSvc := services.NewOpenFoodFactsService()
	extractSvc := services.NewExtractService()

	foods := controllers.NewFoodController(foodSvc, offSvc, extractSvc)
	meals := controllers.NewMealController(mealSvc)
	templates := controllers.NewTemplateController(templateSvc, trackingSvc)
	tracking := controllers.NewTrackingController(trackingSvc)
	admin := controllers.NewAdminController(backupSvc)

	f := r.Group("/foods")
	{
		f.GET("", foods.List)
		f.POST("", foods.Create)
		f.POST("/import-csv", foods.ImportCSV)
		f.POST("/import-product", foods.ImportProduct)
		f.GET("/search", foods.Search)
		f.POST("/extract", foods.Extract)
		f.GET("/:id", foods.Get)
		f.PUT("/:id", foods.Update)
		f.DELETE("/:id", foods.Delete)
	}

	m := r.Group("/meals")
	{
		m.GET("", meals.List)
		m.POST("", meals.Create)
		m.GET("/:id", meals.Get)
		m.PUT("/:id", meals.Update)
		m.DELETE("/:id", meals.Delete)
		m.GET("/:id/nutrition", meals.Nutrition)
	}

	t := r.Group("/templates")
	{
		t.GET("", templates.ListTemplates)
		t.POST("", templates.CreateTemplate)
		t.GET("/:id", templates.GetTemplate)
		t.PUT("/:id", templates.UpdateTemplate)
		t.DELETE("/:id", templates.DeleteTemplate)
		t.POST("/:id/apply", templates.ApplyTemplate)
	}

	menus := r.Group("/menus")
	{
		menus.GET("", templates.ListMenus)
		menus.POST("", templates.CreateMenu)
		menus.GET("/:id", templates.GetMenu)
		menus.PUT("/:id", templates.UpdateMenu)
		menus.DELETE("/:id", templates.DeleteMenu)
		menus.POST("/:id/apply", templates.ApplyMenu)
	}

	p := r.Group("/plans")
	{
		p.GET("", templates.ListPlans)
		p.POST("", templates.CreatePlan)
		p.GET("/nutrition", templates.PlanNutrition)
		p.DELETE("/:id", templates.DeletePlan)
	}

	tr := r.Group("/tracking")
	{
		tr.GET("/day", tracking.GetDay)
		tr.POST("/day/reset", tracking.ResetDay)
		tr.POST("/meals", tracking.AddMeal)
		tr.DELETE("/meals/:id", tracking.RemoveMeal)
		tr.PUT("/meals/:id/foods", tracking.UpdateMealFoods)
		tr.GET("/nutrition", tracking.Nutrition)
	}

	a := r.Group("/admin")
	{
		a.POST("/backup", admin.Backup)
		a.GET("/backups", admin.ListBackups)
		a.POST("/restore", admin.Restore)
	}

	return r
}
