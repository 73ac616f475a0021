package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTopProductJSON(t *testing.T) {
	encoded, err := json.Marshal(TopProduct{Name: "A", Volume: 15})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if string(encoded) != `["A",15]` {
		t.Errorf(`Expected ["A",15], got %s`, encoded)
	}

	var decoded TopProduct
	if err := json.Unmarshal([]byte(`["Bread",20.5]`), &decoded); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if decoded.Name != "Bread" || decoded.Volume != 20.5 {
		t.Errorf("Unexpected decoded value %+v", decoded)
	}

	if err := json.Unmarshal([]byte(`["only-name"]`), &decoded); err == nil {
		t.Error("Expected error for a single-element pair")
	}
}

func TestInsightResultContractKeys(t *testing.T) {
	result := InsightResult{
		Insights:             []string{},
		Warnings:             []string{},
		Recommendations:      []string{},
		CompetitorStrategies: []string{},
		KPIs:                 KPIs{},
		MapPoints:            []MapPoint{},
		Predictions:          map[string]any{},
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, key := range []string{
		"insightsText", "explanations", "insights", "warnings",
		"recommendations", "competitorStrategies", "kpis", "chartsData",
		"mapPoints", "predictions",
	} {
		if !strings.Contains(string(encoded), `"`+key+`"`) {
			t.Errorf("Expected key %q in rendered result", key)
		}
	}
}

func TestInsightPatchPresenceDetection(t *testing.T) {
	var patch InsightPatch
	if err := json.Unmarshal([]byte(`{"warnings":[],"kpis":{"x":1}}`), &patch); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if patch.Warnings == nil {
		t.Error("Expected present-but-empty warnings to decode non-nil")
	}
	if len(*patch.Warnings) != 0 {
		t.Errorf("Expected empty warnings, got %v", *patch.Warnings)
	}
	if patch.KPIs == nil || (*patch.KPIs)["x"] != 1 {
		t.Errorf("Expected kpis decoded, got %v", patch.KPIs)
	}
	if patch.InsightsText != nil {
		t.Error("Expected absent insightsText to stay nil")
	}
}
