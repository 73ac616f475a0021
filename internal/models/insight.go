package models

import (
	"encoding/json"
	"fmt"
)

// Row is one record of uploaded tabular data, keyed by column name. Values
// stay raw text after parsing; numeric interpretation happens downstream.
type Row map[string]string

// TopProduct is one entry of the summary's entity ranking. It serializes as a
// ["name", volume] pair because that is the wire shape the analysis page and
// the insights endpoint already consume.
type TopProduct struct {
	Name   string
	Volume float64
}

func (t TopProduct) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.Name, t.Volume})
}

func (t *TopProduct) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("top product must be a [name, volume] pair, got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &t.Name); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &t.Volume)
}

// Summary is the derived statistical record for an uploaded dataset.
type Summary struct {
	RowCount       int           `json:"rowCount"`
	NumericColumns []string      `json:"numericColumns"`
	TopProducts    []TopProduct  `json:"topProducts"`
	Mapping        ColumnMapping `json:"mapping"`
}

// KPIs holds named metric values. Remote responses may carry metrics the
// local pipeline never computes (retention, LTV, ...), so this stays a map.
type KPIs map[string]float64

// MapPoint is a geo-tagged value rendered as a map marker.
type MapPoint struct {
	Label   string  `json:"label"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Value   float64 `json:"value"`
	Revenue float64 `json:"revenue,omitempty"`
}

// ChartProduct is one bar of the top-products chart.
type ChartProduct struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Revenue float64 `json:"revenue,omitempty"`
	Growth  float64 `json:"growth,omitempty"`
}

// Series is a labelled value sequence for line/pie charts.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// ChartsData groups the chart-ready series of an analysis.
type ChartsData struct {
	TopProducts         []ChartProduct `json:"topProducts"`
	SalesTrend          Series         `json:"salesTrend"`
	CategoryShare       *Series        `json:"categoryShare,omitempty"`
	RegionalPerformance *Series        `json:"regionalPerformance,omitempty"`
}

// InsightResult is the complete, render-ready analysis object. Every field is
// always populated; the resolver guarantees this by merging any remote answer
// over a locally computed baseline. Field names must not change, they are the
// contract surface of the chart/map/table rendering and the PDF export.
type InsightResult struct {
	InsightsText         string         `json:"insightsText"`
	Explanations         string         `json:"explanations"`
	Insights             []string       `json:"insights"`
	Warnings             []string       `json:"warnings"`
	Recommendations      []string       `json:"recommendations"`
	CompetitorStrategies []string       `json:"competitorStrategies"`
	KPIs                 KPIs           `json:"kpis"`
	ChartsData           ChartsData     `json:"chartsData"`
	MapPoints            []MapPoint     `json:"mapPoints"`
	Predictions          map[string]any `json:"predictions"`
}

// InsightPatch is a partial InsightResult as returned by the insights
// endpoint. Pointer fields distinguish "absent" from "present but empty" so
// the merge can override field by field instead of spreading blindly.
type InsightPatch struct {
	InsightsText         *string         `json:"insightsText"`
	Explanations         *string         `json:"explanations"`
	Insights             *[]string       `json:"insights"`
	Warnings             *[]string       `json:"warnings"`
	Recommendations      *[]string       `json:"recommendations"`
	CompetitorStrategies *[]string       `json:"competitorStrategies"`
	KPIs                 *KPIs           `json:"kpis"`
	ChartsData           *ChartsData     `json:"chartsData"`
	MapPoints            *[]MapPoint     `json:"mapPoints"`
	Predictions          *map[string]any `json:"predictions"`
}

// GeneratedInsights is the response shape of the insights endpoint itself.
type GeneratedInsights struct {
	InsightsText    string   `json:"insightsText"`
	Recommendations []string `json:"recommendations"`
	Explanations    string   `json:"explanations"`
}
