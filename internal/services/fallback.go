package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/quickdash/backend/internal/models"
)

// chartProductsCap bounds the top-products chart series in a fallback result.
const chartProductsCap = 6

// Candidate column precedence for fallback KPI and map-point arithmetic.
var (
	quantityColumns = []string{"quantity_sold", "units_sold", "sales_last_30d"}
	priceColumns    = []string{"price", "amount"}
	latColumns      = []string{"lat", "latitude"}
	lonColumns      = []string{"lon", "longitude"}
	labelColumns    = []string{"product", "competitor", "region"}
)

// firstNumeric resolves the first non-empty candidate column in a row. A
// non-empty value that fails to parse resolves to 0 rather than falling
// through to later candidates, matching the original precedence exactly.
func firstNumeric(row models.Row, candidates []string) float64 {
	for _, col := range candidates {
		raw := row[col]
		if raw == "" {
			continue
		}
		if v, ok := parseLooseFloat(raw); ok {
			return v
		}
		return 0
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// SynthesizeFallback builds a complete InsightResult from local arithmetic
// alone. It is a pure function of its inputs: identical sample/summary pairs
// always yield identical output. Every container field is non-nil so the
// rendering page never sees a missing key, whichever path produced the result.
func SynthesizeFallback(sample []models.Row, summary models.Summary) models.InsightResult {
	var totalRevenue, totalUnits float64
	for _, row := range sample {
		qty := firstNumeric(row, quantityColumns)
		price := firstNumeric(row, priceColumns)
		totalUnits += qty
		totalRevenue += qty * price
	}

	avgPrice := 0.0
	if totalUnits != 0 {
		avgPrice = round2(totalRevenue / totalUnits)
	}
	kpis := models.KPIs{
		"totalRevenue": round2(totalRevenue),
		"totalUnits":   math.Round(totalUnits),
		"avgPrice":     avgPrice,
	}

	mapPoints := make([]models.MapPoint, 0)
	for _, row := range sample {
		lat := firstNumeric(row, latColumns)
		lon := firstNumeric(row, lonColumns)
		if lat == 0 || lon == 0 {
			continue
		}
		label := "point"
		for _, col := range labelColumns {
			if row[col] != "" {
				label = row[col]
				break
			}
		}
		mapPoints = append(mapPoints, models.MapPoint{
			Label: label,
			Lat:   lat,
			Lon:   lon,
			Value: firstNumeric(row, quantityColumns),
		})
	}

	topProducts := make([]models.ChartProduct, 0, chartProductsCap)
	for i, p := range summary.TopProducts {
		if i == chartProductsCap {
			break
		}
		topProducts = append(topProducts, models.ChartProduct{Name: p.Name, Value: p.Volume})
	}

	rowCount := summary.RowCount
	if rowCount == 0 {
		rowCount = len(sample)
	}
	columns := "N/A"
	if len(summary.NumericColumns) > 0 {
		columns = strings.Join(summary.NumericColumns, ", ")
	}

	return models.InsightResult{
		InsightsText: fmt.Sprintf("Simulated AI: Detected %d rows. Top numeric columns: %s.", rowCount, columns),
		Explanations: "This is a locally generated fallback response produced because no insights service was reachable.",
		Insights:     []string{},
		Warnings:     []string{},
		Recommendations: []string{
			"Verify mappings and ensure date columns are standardized.",
			"Set safety stock alerts for high-velocity SKUs.",
			"Run region-targeted promotions to balance demand.",
		},
		CompetitorStrategies: []string{
			"Differentiate on speed and service to avoid price wars.",
		},
		KPIs: kpis,
		ChartsData: models.ChartsData{
			TopProducts: topProducts,
			SalesTrend: models.Series{
				Labels: []string{"W1", "W2", "W3", "W4"},
				Values: []float64{320, 445, 390, 520},
			},
		},
		MapPoints:   mapPoints,
		Predictions: map[string]any{},
	}
}
