package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/quickdash/backend/internal/logger"
	"github.com/quickdash/backend/internal/models"
)

const (
	defaultGenerativeModel = "gemini-1.5-flash"
	generateTimeout        = 20 * time.Second
	maxInsightsTextLen     = 2000
	promptSampleRows       = 20
)

// InsightsGenerator serves the insights endpoint: it builds the analyst
// prompt and calls the generative API when a key is configured. Without a
// key, or when the call fails, it returns the simulated response so the
// endpoint stays available.
type InsightsGenerator struct {
	apiKey string
	model  string
}

func NewInsightsGenerator() *InsightsGenerator {
	apiKey := os.Getenv("GENERATIVE_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	model := os.Getenv("GENERATIVE_MODEL")
	if model == "" {
		model = defaultGenerativeModel
	}
	return &InsightsGenerator{apiKey: apiKey, model: model}
}

// Generate produces the insights document for a sample/summary payload.
func (g *InsightsGenerator) Generate(ctx context.Context, sample []models.Row, summary models.Summary, mapping models.ColumnMapping) models.GeneratedInsights {
	if g.apiKey == "" {
		logger.Warn("No generative API key configured, returning simulated insights", nil)
		return g.simulatedResponse(summary)
	}

	start := time.Now()
	text, err := g.generateText(ctx, BuildPrompt(sample, summary, mapping))
	if err != nil {
		logger.Error("Generative API call failed, returning simulated insights", map[string]interface{}{
			"model":   g.model,
			"elapsed": time.Since(start).String(),
			"error":   err.Error(),
		})
		return g.simulatedResponse(summary)
	}

	logger.Info("Generative API call completed", map[string]interface{}{
		"model":       g.model,
		"elapsed":     time.Since(start).String(),
		"text_length": len(text),
	})

	trimmed := text
	if len(trimmed) > maxInsightsTextLen {
		trimmed = trimmed[:maxInsightsTextLen]
	}
	return models.GeneratedInsights{
		InsightsText:    trimmed,
		Recommendations: []string{},
		Explanations:    text,
	}
}

func (g *InsightsGenerator) generateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create generative client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SetTemperature(0.2)
	model.SetMaxOutputTokens(512)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("content generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("generative API returned an empty response")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("generative API returned no text parts")
	}
	return b.String(), nil
}

// BuildPrompt assembles the analyst prompt from the summary and a capped
// slice of sample rows.
func BuildPrompt(sample []models.Row, summary models.Summary, mapping models.ColumnMapping) string {
	topNames := make([]string, 0, 5)
	for i, p := range summary.TopProducts {
		if i == 5 {
			break
		}
		topNames = append(topNames, p.Name)
	}
	top := "N/A"
	if len(topNames) > 0 {
		top = strings.Join(topNames, ", ")
	}

	if len(sample) > promptSampleRows {
		sample = sample[:promptSampleRows]
	}
	sampleJSON, _ := json.Marshal(sample)

	return fmt.Sprintf(`You are a data analyst assistant. The user uploaded a dataset with %d rows.
Columns (numeric): %s

Top products (sample): %s

Provide:
1) A concise executive summary (3-4 sentences).
2) Top 5 insights with reasons and supporting evidence (reference sample rows where relevant).
3) Actionable recommendations (prioritized).
4) Suggested next analyses and potential pitfalls in the data.

Sample rows (first %d): %s

Be concise and label sections clearly.`,
		summary.RowCount,
		strings.Join(summary.NumericColumns, ", "),
		top,
		promptSampleRows,
		string(sampleJSON),
	)
}

func (g *InsightsGenerator) simulatedResponse(summary models.Summary) models.GeneratedInsights {
	return models.GeneratedInsights{
		InsightsText: fmt.Sprintf("Detected %d rows. Top numeric columns: %s.",
			summary.RowCount, strings.Join(summary.NumericColumns, ", ")),
		Recommendations: []string{
			"Investigate inventory low signals for top 3 products.",
			"Consider increasing ad spend on top performing category.",
		},
		Explanations: "Correlations detected suggest price is negatively correlated with volume in some categories.",
	}
}
