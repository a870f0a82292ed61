package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// setupSuggestTest creates a Gin engine with a mock OpenAI server and returns
// the router, the server, and a function to set the mock response. The last
// request body the mock received is written to *lastBody.
func setupSuggestTest(lastBody *string) (*gin.Engine, *httptest.Server, func(int, interface{})) {
	var mockStatus int
	var mockBody interface{}

	mockOpenAI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if lastBody != nil {
			b, _ := io.ReadAll(r.Body)
			*lastBody = string(b)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(mockStatus)
		json.NewEncoder(w).Encode(mockBody)
	}))

	gin.SetMode(gin.TestMode)
	h := Handler{openAIKey: "test-key", openAIBaseURL: mockOpenAI.URL}
	router := gin.New()
	router.POST("/api/ingredients/suggest", h.suggestIngredient)

	setMock := func(status int, body interface{}) {
		mockStatus = status
		mockBody = body
	}
	return router, mockOpenAI, setMock
}

// doSuggestRequest sends a POST to the suggest endpoint with the given body.
func doSuggestRequest(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/ingredients/suggest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// openAIChatResponse wraps a content string in the OpenAI chat completions
// response shape (choices[0].message.content).
func openAIChatResponse(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"content": content}},
		},
	}
}

func TestSuggest_Success(t *testing.T) {
	var sent string
	router, mockServer, setMock := setupSuggestTest(&sent)
	defer mockServer.Close()

	setMock(http.StatusOK, openAIChatResponse(
		`{"name":"Quinoa","calories":368,"protein":14.1,"carbs":64.2,"fat":6.1,"fiber":7,"sugar":0,"category":"grains","confidence":4}`))

	w := doSuggestRequest(router, `{"name":"quinoa"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp suggestionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Name != "Quinoa" {
		t.Errorf("name = %q, want Quinoa", resp.Name)
	}
	if resp.Per != "100g" {
		t.Errorf("per = %q, want 100g", resp.Per)
	}
	if resp.Calories != 368 || resp.Protein != 14.1 {
		t.Errorf("unexpected macros: %+v", resp)
	}
	if resp.Confidence != 4 {
		t.Errorf("confidence = %d, want 4", resp.Confidence)
	}
	if !strings.Contains(sent, `"content":"quinoa"`) {
		t.Errorf("user message not forwarded, request was %s", sent)
	}
}

// TestSuggest_InconsistentEnergy verifies that a suggestion whose calories
// disagree with its macros is downgraded to a rough guess.
func TestSuggest_InconsistentEnergy(t *testing.T) {
	router, mockServer, setMock := setupSuggestTest(nil)
	defer mockServer.Close()

	setMock(http.StatusOK, openAIChatResponse(
		`{"name":"Mystery Bar","calories":900,"protein":5,"carbs":10,"fat":2,"confidence":5}`))

	w := doSuggestRequest(router, `{"name":"mystery bar"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp suggestionResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Confidence != 2 {
		t.Errorf("confidence = %d, want 2", resp.Confidence)
	}
}

func TestSuggest_Unrecognized(t *testing.T) {
	router, mockServer, setMock := setupSuggestTest(nil)
	defer mockServer.Close()

	setMock(http.StatusOK, openAIChatResponse(`{"error":"unrecognized"}`))

	w := doSuggestRequest(router, `{"name":"asdfghjkl"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "unrecognized" {
		t.Errorf("expected error=unrecognized, got %v", resp)
	}
}

func TestSuggest_OpenAIError(t *testing.T) {
	router, mockServer, setMock := setupSuggestTest(nil)
	defer mockServer.Close()

	setMock(http.StatusInternalServerError, map[string]string{"error": "internal"})

	w := doSuggestRequest(router, `{"name":"rice"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestSuggest_MalformedJSON(t *testing.T) {
	router, mockServer, setMock := setupSuggestTest(nil)
	defer mockServer.Close()

	setMock(http.StatusOK, openAIChatResponse(`this is not json`))

	w := doSuggestRequest(router, `{"name":"rice"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestSuggest_EmptyName(t *testing.T) {
	router, mockServer, _ := setupSuggestTest(nil)
	defer mockServer.Close()

	for _, body := range []string{`{"name":""}`, `{"name":"   "}`, `not json`} {
		w := doSuggestRequest(router, body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, w.Code)
		}
	}
}

func TestSuggest_NotConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := Handler{}
	router := gin.New()
	router.POST("/api/ingredients/suggest", h.suggestIngredient)

	w := doSuggestRequest(router, `{"name":"rice"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
