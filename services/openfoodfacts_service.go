package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sstent/foodplanner-sub000/models"
)

// OpenFoodFactsService queries the OpenFoodFacts product database for
// food search and one-click import.
type OpenFoodFactsService struct {
	baseURL string
	client  *http.Client
}

func NewOpenFoodFactsService() *OpenFoodFactsService {
	base := os.Getenv("OFF_BASE_URL")
	if base == "" {
		base = "https://world.openfoodfacts.org"
	}
	return &OpenFoodFactsService{
		baseURL: base,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ProductResult is one search hit, nutrients per 100 g.
type ProductResult struct {
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
	Calcium  float64 `json:"calcium"`
}

type offProduct struct {
	Code        string `json:"code"`
	ProductName string `json:"product_name"`
	Brands      string `json:"brands"`
	Nutriments  struct {
		EnergyKcal float64 `json:"energy-kcal_100g"`
		Proteins   float64 `json:"proteins_100g"`
		Carbs      float64 `json:"carbohydrates_100g"`
		Fat        float64 `json:"fat_100g"`
		Fiber      float64 `json:"fiber_100g"`
		Sugars     float64 `json:"sugars_100g"`
		Sodium     float64 `json:"sodium_100g"`
		Calcium    float64 `json:"calcium_100g"`
	} `json:"nutriments"`
}

type offSearchResponse struct {
	Products []offProduct `json:"products"`
}

// Search queries the OpenFoodFacts search endpoint and maps the hits to
// per-100g product results.
func (s *OpenFoodFactsService) Search(query string) ([]ProductResult, error) {
	u := fmt.Sprintf(
		"%s/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1&page_size=20",
		s.baseURL, url.QueryEscape(query),
	)

	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenFoodFacts search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenFoodFacts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openfoodfacts API error %d: %s", resp.StatusCode, string(body))
	}

	var sr offSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to parse OpenFoodFacts JSON: %w", err)
	}

	results := make([]ProductResult, 0, len(sr.Products))
	for _, p := range sr.Products {
		if p.ProductName == "" {
			continue
		}
		results = append(results, productToResult(p))
	}
	return results, nil
}

// FetchProduct fetches one product by barcode for import as a Food.
// Nutrients come per 100 g, so the imported food uses a 100 g serving.
func (s *OpenFoodFactsService) FetchProduct(code string) (*models.Food, error) {
	u := fmt.Sprintf("%s/api/v2/product/%s.json", s.baseURL, url.PathEscape(code))

	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenFoodFacts product API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OpenFoodFacts response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openfoodfacts API error %d: %s", resp.StatusCode, string(body))
	}

	var pr struct {
		Status  int        `json:"status"`
		Product offProduct `json:"product"`
	}
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse OpenFoodFacts JSON: %w", err)
	}
	if pr.Status != 1 || pr.Product.ProductName == "" {
		return nil, ErrFoodNotFound
	}

	r := productToResult(pr.Product)
	return &models.Food{
		Name:        r.Name,
		Brand:       r.Brand,
		Source:      models.FoodSourceOpenFoodFacts,
		ServingSize: 100,
		Calories:    r.Calories,
		Protein:     r.Protein,
		Carbs:       r.Carbs,
		Fat:         r.Fat,
		Fiber:       r.Fiber,
		Sugar:       r.Sugar,
		Sodium:      r.Sodium,
		Calcium:     r.Calcium,
	}, nil
}

func productToResult(p offProduct) ProductResult {
	return ProductResult{
		Code:     p.Code,
		Name:     p.ProductName,
		Brand:    p.Brands,
		Calories: p.Nutriments.EnergyKcal,
		Protein:  p.Nutriments.Proteins,
		Carbs:    p.Nutriments.Carbs,
		Fat:      p.Nutriments.Fat,
		Fiber:    p.Nutriments.Fiber,
		Sugar:    p.Nutriments.Sugars,
		Sodium:   p.Nutriments.Sodium,
		Calcium:  p.Nutriments.Calcium,
	}
}
