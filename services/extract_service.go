package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sstent/foodplanner-sub000/models"
)

// ExtractService asks a language model to pull nutrition facts out of a
// label photo or pasted text. The result is a food draft the user
// confirms before it is persisted.
type ExtractService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewExtractService() *ExtractService {
	base := os.Getenv("LLM_BASE_URL")
	if base == "" {
		base = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"
	}
	return &ExtractService{
		apiKey:  os.Getenv("LLM_API_KEY"),
		baseURL: base,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

const extractPrompt = `Extract nutrition facts from the following food label.
Respond with only a JSON object, no markdown, with these keys:
name, brand, serving_size (grams, number), calories, protein, carbs, fat,
fiber, sugar, sodium, calcium (all numbers, per serving, 0 if absent).`

type llmPart struct {
	Text       string         `json:"text,omitempty"`
	InlineData *llmInlineData `json:"inline_data,omitempty"`
}

type llmInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type llmContent struct {
	Parts []llmPart `json:"parts"`
}

type llmRequest struct {
	Contents []llmContent `json:"contents"`
}

type llmResponse struct {
	Candidates []struct {
		Content llmContent `json:"content"`
	} `json:"candidates"`
}

// ExtractFromText extracts a food draft from pasted label text or a web
// page excerpt.
func (s *ExtractService) ExtractFromText(text string) (*models.Food, error) {
	parts := []llmPart{{Text: extractPrompt + "\n\n" + text}}
	return s.extract(parts)
}

// ExtractFromImage extracts a food draft from a base64-encoded label
// photo.
func (s *ExtractService) ExtractFromImage(imageBase64, mimeType string) (*models.Food, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	// Strip a data URI prefix if the client sent one.
	if idx := strings.Index(imageBase64, ","); idx != -1 && strings.HasPrefix(imageBase64, "data:") {
		imageBase64 = imageBase64[idx+1:]
	}
	parts := []llmPart{
		{Text: extractPrompt},
		{InlineData: &llmInlineData{MimeType: mimeType, Data: imageBase64}},
	}
	return s.extract(parts)
}

func (s *ExtractService) extract(parts []llmPart) (*models.Food, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is not configured")
	}

	payload := llmRequest{Contents: []llmContent{{Parts: parts}}}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extraction payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"?key="+s.apiKey, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call LLM API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read LLM response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("LLM API error %d: %s", resp.StatusCode, string(body))
	}

	var lr llmResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if len(lr.Candidates) == 0 || len(lr.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("LLM returned no candidates")
	}

	return parseFoodDraft(lr.Candidates[0].Content.Parts[0].Text)
}

// parseFoodDraft unwraps the model's JSON answer, tolerating a markdown
// code fence the model sometimes adds despite the prompt.
func parseFoodDraft(text string) (*models.Food, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var draft struct {
		Name        string  `json:"name"`
		Brand       string  `json:"brand"`
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
	if err := json.Unmarshal([]byte(text), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse extracted nutrition facts: %w", err)
	}
	if draft.Name == "" {
		return nil, fmt.Errorf("extraction produced no food name")
	}

	return &models.Food{
		Name:        draft.Name,
		Brand:       draft.Brand,
		Source:      models.FoodSourceManual,
		ServingSize: draft.ServingSize,
		Calories:    draft.Calories,
		Protein:     draft.Protein,
		Carbs:       draft.Carbs,
		Fat:         draft.Fat,
		Fiber:       draft.Fiber,
		Sugar:       draft.Sugar,
		Sodium:      draft.Sodium,
		Calcium:     draft.Calcium,
	}, nil
}
