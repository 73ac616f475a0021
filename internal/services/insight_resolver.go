package services

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/quickdash/backend/internal/logger"
	"github.com/quickdash/backend/internal/models"
)

// defaultResolveTimeout bounds the remote insights call. On expiry the
// in-flight request is cancelled and the fallback path is taken.
const defaultResolveTimeout = 4 * time.Second

// InsightResolver turns a sample/summary/mapping triple into a complete
// InsightResult. It makes exactly one attempt against the insights endpoint;
// every failure mode (network error, timeout, non-2xx status, malformed body)
// is absorbed by the locally synthesized baseline. Callers never see an
// error, only possibly fallback-only data.
type InsightResolver struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

func NewInsightResolver(endpoint string) *InsightResolver {
	if endpoint == "" {
		endpoint = os.Getenv("INSIGHTS_URL")
	}
	if endpoint == "" {
		endpoint = "http://localhost:8080/ai-insights"
	}

	timeout := defaultResolveTimeout
	if raw := os.Getenv("INSIGHTS_TIMEOUT_MS"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			timeout = time.Duration(ms) * time.Millisecond
		}
	}

	return &InsightResolver{
		endpoint: endpoint,
		timeout:  timeout,
		client:   &http.Client{},
	}
}

type insightPayload struct {
	Sample  []models.Row         `json:"sample"`
	Summary models.Summary       `json:"summary"`
	Mapping models.ColumnMapping `json:"mapping"`
}

// Resolve returns the remote answer merged over the local baseline when the
// insights call succeeds, and the baseline alone otherwise.
func (r *InsightResolver) Resolve(ctx context.Context, sample []models.Row, summary models.Summary, mapping models.ColumnMapping) models.InsightResult {
	fallback := SynthesizeFallback(sample, summary)

	body, err := json.Marshal(insightPayload{Sample: sample, Summary: summary, Mapping: mapping})
	if err != nil {
		logger.Warn("Failed to encode insights payload, using fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewBuffer(body))
	if err != nil {
		logger.Warn("Failed to build insights request, using fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return fallback
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		logger.Warn("Insights call failed, using fallback", map[string]interface{}{
			"endpoint": r.endpoint,
			"elapsed":  time.Since(start).String(),
			"error":    err.Error(),
		})
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		logger.Warn("Insights call returned non-success status, using fallback", map[string]interface{}{
			"endpoint": r.endpoint,
			"status":   resp.StatusCode,
		})
		return fallback
	}

	var patch models.InsightPatch
	if err := json.NewDecoder(resp.Body).Decode(&patch); err != nil {
		logger.Warn("Failed to decode insights response, using fallback", map[string]interface{}{
			"error": err.Error(),
		})
		return fallback
	}

	return MergeInsights(fallback, patch)
}

// MergeInsights overlays the fields present in a remote response onto the
// baseline. Absent fields keep their baseline values, so even a minimal
// remote answer produces a structurally complete result.
func MergeInsights(base models.InsightResult, patch models.InsightPatch) models.InsightResult {
	if patch.InsightsText != nil {
		base.InsightsText = *patch.InsightsText
	}
	if patch.Explanations != nil {
		base.Explanations = *patch.Explanations
	}
	if patch.Insights != nil {
		base.Insights = *patch.Insights
	}
	if patch.Warnings != nil {
		base.Warnings = *patch.Warnings
	}
	if patch.Recommendations != nil {
		base.Recommendations = *patch.Recommendations
	}
	if patch.CompetitorStrategies != nil {
		base.CompetitorStrategies = *patch.CompetitorStrategies
	}
	if patch.KPIs != nil {
		base.KPIs = *patch.KPIs
	}
	if patch.ChartsData != nil {
		base.ChartsData = *patch.ChartsData
	}
	if patch.MapPoints != nil {
		base.MapPoints = *patch.MapPoints
	}
	if patch.Predictions != nil {
		base.Predictions = *patch.Predictions
	}
	return base
}
