package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickdash/backend/internal/models"
	"github.com/quickdash/backend/internal/services"
)

type InsightsController struct {
	generator *services.InsightsGenerator
}

func NewInsightsController(generator *services.InsightsGenerator) *InsightsController {
	return &InsightsController{generator: generator}
}

type insightsRequest struct {
	Sample  []models.Row         `json:"sample"`
	Summary models.Summary       `json:"summary"`
	Mapping models.ColumnMapping `json:"mapping"`
}

// GenerateInsights serves the insights endpoint the resolver posts to. The
// generator never fails outright: without an API key, or when the generative
// call errors, it answers with the simulated document.
func (ic *InsightsController) GenerateInsights(c *gin.Context) {
	var req insightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	insights := ic.generator.Generate(c.Request.Context(), req.Sample, req.Summary, req.Mapping)
	c.JSON(http.StatusOK, insights)
}
