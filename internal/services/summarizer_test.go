package services

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/quickdash/backend/internal/models"
)

func TestParseLooseFloat(t *testing.T) {
	tests := []struct {
		raw   string
		value float64
		ok    bool
	}{
		{"10", 10, true},
		{"12.5", 12.5, true},
		{"₹1,234.50", 1234.50, true},
		{"$99", 99, true},
		{"-2.3", -2.3, true},
		{"-.5", -0.5, true},
		{"2025-09-01", 2025, true},
		{"3.", 3, true},
		{"", 0, false},
		{"abc", 0, false},
		{"--", 0, false},
		{"N/A", 0, false},
	}

	for _, test := range tests {
		value, ok := parseLooseFloat(test.raw)
		if ok != test.ok {
			t.Errorf("For input '%s', expected ok=%v, got %v", test.raw, test.ok, ok)
			continue
		}
		if ok && value != test.value {
			t.Errorf("For input '%s', expected %v, got %v", test.raw, test.value, value)
		}
	}
}

func TestSummarizeKnownAggregation(t *testing.T) {
	rows := []models.Row{
		{"product": "A", "quantity_sold": "10", "price": "5"},
		{"product": "A", "quantity_sold": "5", "price": "5"},
		{"product": "B", "quantity_sold": "20", "price": "2"},
	}
	mapping := models.ColumnMapping{SalesVolume: "quantity_sold"}

	summary := Summarize(rows, mapping)

	if summary.RowCount != 3 {
		t.Errorf("Expected rowCount 3, got %d", summary.RowCount)
	}

	expected := []models.TopProduct{
		{Name: "B", Volume: 20},
		{Name: "A", Volume: 15},
	}
	if !reflect.DeepEqual(summary.TopProducts, expected) {
		t.Errorf("Expected topProducts %v, got %v", expected, summary.TopProducts)
	}
}

func TestSummarizeIdempotent(t *testing.T) {
	rows := []models.Row{
		{"product": "A", "quantity_sold": "10", "price": "5", "region": "North"},
		{"product": "B", "quantity_sold": "20", "price": "2", "region": "South"},
		{"product": "C", "quantity_sold": "7", "price": "", "region": "East"},
	}
	mapping := models.ColumnMapping{SalesVolume: "quantity_sold"}

	first := Summarize(rows, mapping)
	second := Summarize(rows, mapping)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical summaries, got %v and %v", first, second)
	}
}

func TestSummarizeEmptyRows(t *testing.T) {
	summary := Summarize([]models.Row{}, models.ColumnMapping{})

	if summary.RowCount != 0 {
		t.Errorf("Expected rowCount 0, got %d", summary.RowCount)
	}
	if len(summary.NumericColumns) != 0 {
		t.Errorf("Expected no numeric columns, got %v", summary.NumericColumns)
	}
	if summary.NumericColumns == nil {
		t.Error("Expected non-nil numericColumns")
	}
	if len(summary.TopProducts) != 0 {
		t.Errorf("Expected no top products, got %v", summary.TopProducts)
	}
	if summary.TopProducts == nil {
		t.Error("Expected non-nil topProducts")
	}
}

func TestNumericColumnThreshold(t *testing.T) {
	// 20 rows: threshold is max(1, 20*0.2) = 4, so a column needs more than
	// 4 numeric values to qualify.
	rows := make([]models.Row, 20)
	for i := range rows {
		row := models.Row{"name": fmt.Sprintf("item-%d", i)}
		if i < 5 {
			row["qualifies"] = "1"
		}
		if i < 4 {
			row["at_threshold"] = "1"
		}
		rows[i] = row
	}

	summary := Summarize(rows, models.ColumnMapping{})

	if !containsColumn(summary.NumericColumns, "qualifies") {
		t.Errorf("Expected 'qualifies' in numeric columns, got %v", summary.NumericColumns)
	}
	if containsColumn(summary.NumericColumns, "at_threshold") {
		t.Errorf("Expected 'at_threshold' excluded at the threshold, got %v", summary.NumericColumns)
	}
	if containsColumn(summary.NumericColumns, "name") {
		t.Errorf("Expected 'name' excluded, got %v", summary.NumericColumns)
	}
}

func TestNumericColumnThresholdSmallDataset(t *testing.T) {
	// 3 rows: threshold is max(1, 0.6) = 1, so one numeric value is not
	// enough but two are.
	rows := []models.Row{
		{"once": "5", "twice": "5"},
		{"once": "x", "twice": "7"},
		{"once": "", "twice": ""},
	}

	summary := Summarize(rows, models.ColumnMapping{})

	if containsColumn(summary.NumericColumns, "once") {
		t.Errorf("Expected 'once' excluded with a single numeric value, got %v", summary.NumericColumns)
	}
	if !containsColumn(summary.NumericColumns, "twice") {
		t.Errorf("Expected 'twice' included, got %v", summary.NumericColumns)
	}
}

func TestTopProductsCap(t *testing.T) {
	var rows []models.Row
	for i := 0; i < 15; i++ {
		rows = append(rows, models.Row{
			"product":  fmt.Sprintf("product-%d", i),
			"quantity": fmt.Sprintf("%d", 100-i),
		})
	}

	summary := Summarize(rows, models.ColumnMapping{})

	if len(summary.TopProducts) != topProductsCap {
		t.Errorf("Expected %d top products, got %d", topProductsCap, len(summary.TopProducts))
	}
	if summary.TopProducts[0].Name != "product-0" {
		t.Errorf("Expected highest-volume product first, got %s", summary.TopProducts[0].Name)
	}
}

func TestTopProductsTieKeepsEncounterOrder(t *testing.T) {
	rows := []models.Row{
		{"product": "X", "quantity": "5"},
		{"product": "Y", "quantity": "5"},
		{"product": "Z", "quantity": "9"},
	}

	summary := Summarize(rows, models.ColumnMapping{})

	expected := []models.TopProduct{
		{Name: "Z", Volume: 9},
		{Name: "X", Volume: 5},
		{Name: "Y", Volume: 5},
	}
	if !reflect.DeepEqual(summary.TopProducts, expected) {
		t.Errorf("Expected %v, got %v", expected, summary.TopProducts)
	}
}

func TestSummarizeSkipsRowsWithoutEntityOrVolume(t *testing.T) {
	rows := []models.Row{
		{"product": "A", "quantity": "10"},
		{"product": "", "quantity": "10"},
		{"product": "B", "quantity": "n/a"},
	}

	summary := Summarize(rows, models.ColumnMapping{})

	if len(summary.TopProducts) != 1 || summary.TopProducts[0].Name != "A" {
		t.Errorf("Expected only product A aggregated, got %v", summary.TopProducts)
	}
}

func TestSampleOfCap(t *testing.T) {
	rows := make([]models.Row, 150)
	for i := range rows {
		rows[i] = models.Row{"n": fmt.Sprintf("%d", i)}
	}

	sample := SampleOf(rows)
	if len(sample) != sampleCap {
		t.Errorf("Expected sample of %d rows, got %d", sampleCap, len(sample))
	}
	if sample[0]["n"] != "0" {
		t.Errorf("Expected sample to keep the row prefix, got first row %v", sample[0])
	}

	small := SampleOf(rows[:3])
	if len(small) != 3 {
		t.Errorf("Expected sample of 3 rows, got %d", len(small))
	}

	empty := SampleOf(nil)
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected non-nil empty sample, got %v", empty)
	}
}

func containsColumn(columns []string, name string) bool {
	for _, col := range columns {
		if col == name {
			return true
		}
	}
	return false
}
