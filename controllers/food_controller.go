package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sstent/foodplanner-sub000/models"
	"github.com/sstent/foodplanner-sub000/services"
)

// FoodController exposes the food catalog, CSV import, the
// OpenFoodFacts lookup and LLM label extraction.
type FoodController struct {
	foods   *services.FoodService
	off     *services.OpenFoodFactsService
	extract *services.ExtractService
}

func NewFoodController(foods *services.FoodService, off *services.OpenFoodFactsService, extract *services.ExtractService) *FoodController {
	return &FoodController{foods: foods, off: off, extract: extract}
}

type foodRequest struct {
	Name        string  `json:"name" binding:"required"`
	Brand       string  `json:"brand"`
	Source      string  `json:"source"`
	ServingSize float64 `json:"serving_size"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	Fiber       float64 `json:"fiber"`
	Sugar       float64 `json:"sugar"`
	Sodium      float64 `json:"sodium"`
	Calcium     float64 `json:"calcium"`
}

func (r foodRequest) toModel() models.Food {
	return models.Food{
		Name:        r.Name,
		Brand:       r.Brand,
		Source:      r.Source,
		ServingSize: r.ServingSize,
		Calories:    r.Calories,
		Protein:     r.Protein,
		Carbs:       r.Carbs,
		Fat:         r.Fat,
		Fiber:       r.Fiber,
		Sugar:       r.Sugar,
		Sodium:      r.Sodium,
		Calcium:     r.Calcium,
	}
}

func (ctl *FoodController) List(c *gin.Context) {
	foods, err := ctl.foods.ListFoods()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

func (ctl *FoodController) Create(c *gin.Context) {
	var req foodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	food := req.toModel()
	if err := ctl.foods.CreateFood(&food); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

func (ctl *FoodController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	food, err := ctl.foods.GetFood(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (ctl *FoodController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req foodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	food, err := ctl.foods.UpdateFood(id, req.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (ctl *FoodController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.foods.DeleteFood(id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportCSV accepts the CSV as the raw request body.
func (ctl *FoodController) ImportCSV(c *gin.Context) {
	result, err := ctl.foods.ImportCSV(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Search proxies an OpenFoodFacts product search.
func (ctl *FoodController) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	results, err := ctl.off.Search(query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

// ImportProduct fetches one OpenFoodFacts product by barcode and saves
// it to the catalog.
func (ctl *FoodController) ImportProduct(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	food, err := ctl.off.FetchProduct(req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := ctl.foods.CreateFood(food); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

// Extract runs LLM nutrition-facts extraction on a label photo or
// pasted text and returns a food draft for the user to confirm.
func (ctl *FoodController) Extract(c *gin.Context) {
	var req struct {
		Text        string `json:"text"`
		ImageBase64 string `json:"image_base64"`
		MimeType    string `json:"mime_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Text == "" && req.ImageBase64 == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text or image_base64 is required"})
		return
	}

	var (
		draft interface{}
		err   error
	)
	if req.ImageBase64 != "" {
		draft, err = ctl.extract.ExtractFromImage(req.ImageBase64, req.MimeType)
	} else {
		draft, err = ctl.extract.ExtractFromText(req.Text)
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, draft)
}
