package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/quickdash/backend/internal/models"
	"github.com/quickdash/backend/internal/services"
)

func insightsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	t.Setenv("GENERATIVE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	gin.SetMode(gin.TestMode)

	r := gin.New()
	controller := NewInsightsController(services.NewInsightsGenerator())
	r.POST("/ai-insights", controller.GenerateInsights)
	return r
}

func TestGenerateInsightsEndpoint(t *testing.T) {
	r := insightsRouter(t)

	body := `{"sample":[{"product":"A","quantity_sold":"10"}],"summary":{"rowCount":1,"numericColumns":["quantity_sold"],"topProducts":[["A",10]],"mapping":{}},"mapping":{}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ai-insights", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.GeneratedInsights
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Expected valid JSON response, got %v", err)
	}
	if resp.InsightsText != "Detected 1 rows. Top numeric columns: quantity_sold." {
		t.Errorf("Unexpected insightsText %q", resp.InsightsText)
	}
	if len(resp.Recommendations) == 0 {
		t.Error("Expected recommendations in response")
	}
}

func TestGenerateInsightsRejectsInvalidBody(t *testing.T) {
	r := insightsRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ai-insights", strings.NewReader(`{"summary":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}
