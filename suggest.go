package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/media2net-app/mihaelafitness/internal/nutrition"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// suggestRequest is the request body for POST /api/ingredients/suggest.
type suggestRequest struct {
	Name string `json:"name"`
}

// suggestionResponse is a draft catalog entry estimated by the model, always
// per 100g. Confidence is 1-5. The coach reviews it before saving.
type suggestionResponse struct {
	Name       string  `json:"name"`
	Per        string  `json:"per"`
	Calories   float64 `json:"calories"`
	Protein    float64 `json:"protein"`
	Carbs      float64 `json:"carbs"`
	Fat        float64 `json:"fat"`
	Fiber      float64 `json:"fiber"`
	Sugar      float64 `json:"sugar"`
	Category   string  `json:"category"`
	Confidence int     `json:"confidence"`
}

/* ─── OpenAI prompt ──────────────────────────────────────────────────── */

const ingredientSystemPrompt = `You are a nutrition database assistant. Given a food or ingredient name, return a JSON object with nutrition values per 100 g (per 100 ml for liquids):
- "name" (string, cleaned up title case, singular)
- "calories" (number, kcal)
- "protein" (number, grams, one decimal)
- "carbs" (number, grams, one decimal)
- "fat" (number, grams, one decimal)
- "fiber" (number, grams, one decimal)
- "sugar" (number, grams, one decimal)
- "category" (one of: protein, dairy, grains, fruits, vegetables, fats, drinks, snacks, other)
- "confidence" (integer 1-5: 5=exact known nutritional data, 4=very close estimate, 3=reasonable estimate, 2=rough guess, 1=very uncertain)

Use raw/uncooked values unless the name says otherwise. Only return {"error": "unrecognized"} if the input is not food at all.
Return only valid JSON, no explanation.`

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

var errNoAPIKey = errors.New("openai api key not configured")

// openAIMessage is a single message in the OpenAI chat completions request.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIRequest is the request body for the OpenAI chat completions API.
type openAIRequest struct {
	Model          string                 `json:"model"`
	Messages       []openAIMessage        `json:"messages"`
	Temperature    float64                `json:"temperature"`
	ResponseFormat map[string]interface{} `json:"response_format"`
}

// callOpenAI sends a chat completions request and returns the content of the
// first choice.
func callOpenAI(ctx context.Context, apiKey, baseURL string, messages []openAIMessage) (string, error) {
	if apiKey == "" {
		return "", errNoAPIKey
	}

	bodyBytes, err := json.Marshal(openAIRequest{
		Model:          "gpt-4o-mini",
		Messages:       messages,
		Temperature:    0,
		ResponseFormat: map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return result.Choices[0].Message.Content, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// suggestIngredient handles POST /api/ingredients/suggest. It drafts a
// per-100g catalog entry for a name the matcher could not resolve. Nothing
// is saved.
func (h *Handler) suggestIngredient(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		apiError(c, http.StatusBadRequest, "name is required")
		return
	}
	if h.openAIKey == "" {
		apiError(c, http.StatusServiceUnavailable, "ingredient suggestions are not configured")
		return
	}

	log := requestLogger(c).WithField("ingredient", name)
	content, err := callOpenAI(c.Request.Context(), h.openAIKey, h.openAIBaseURL, []openAIMessage{
		{Role: "system", Content: ingredientSystemPrompt},
		{Role: "user", Content: name},
	})
	if err != nil {
		log.Errorf("[suggestIngredient] OpenAI error: %v", err)
		apiError(c, http.StatusBadGateway, "openai request failed")
		return
	}

	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &errorResp); err != nil {
		log.Errorf("[suggestIngredient] Failed to parse OpenAI response: %v", err)
		apiError(c, http.StatusBadGateway, "openai request failed")
		return
	}
	if errorResp.Error == "unrecognized" {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	var s suggestionResponse
	if err := json.Unmarshal([]byte(content), &s); err != nil {
		log.Errorf("[suggestIngredient] Failed to parse suggestion JSON: %v", err)
		apiError(c, http.StatusBadGateway, "openai request failed")
		return
	}
	if s.Name == "" || s.Calories <= 0 {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	s.Per = "100g"
	if _, off := nutrition.EnergyMismatch(nutrition.Ingredient{
		Name: s.Name, Per: s.Per, Calories: s.Calories, Protein: s.Protein, Carbs: s.Carbs, Fat: s.Fat,
	}); off && s.Confidence > 2 {
		// Inconsistent energy is at best a rough guess.
		s.Confidence = 2
	}
	c.JSON(http.StatusOK, s)
}
