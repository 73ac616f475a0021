package services

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/quickdash/backend/internal/models"
)

const (
	// topProductsCap bounds the entity ranking in a Summary.
	topProductsCap = 10
	// sampleCap bounds the row sample forwarded to the insights endpoint.
	sampleCap = 100
)

// parseLooseFloat coerces a raw cell to a number the way the upload page
// always has: strip every character except digits, '.' and '-', then parse
// the longest valid leading prefix. "₹1,299.50" parses as 1299.5 and
// "2025-09-01" as 2025; blanks and pure text report false.
func parseLooseFloat(raw string) (float64, bool) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return 0, false
	}

	end := 0
	seenDigit, seenDot := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' {
			if i != 0 {
				break
			}
		} else if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else {
			seenDigit = true
		}
		end = i + 1
	}
	if !seenDigit {
		return 0, false
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Summarize derives the statistical summary for a set of rows: row count,
// numeric-column inference and the top-10 entity ranking. It is deterministic,
// never errors, and tolerates an empty input.
func Summarize(rows []models.Row, mapping models.ColumnMapping) models.Summary {
	numericCounts := make(map[string]int)
	observed := make(map[string]bool)

	productCol := mapping.ProductColumn()
	volumeCol := mapping.VolumeColumn()

	volumes := make(map[string]float64)
	var encounterOrder []string

	for _, row := range rows {
		for col, raw := range row {
			observed[col] = true
			if _, ok := parseLooseFloat(raw); ok {
				numericCounts[col]++
			}
		}

		name := row[productCol]
		if name == "" {
			continue
		}
		vol, ok := parseLooseFloat(row[volumeCol])
		if !ok {
			continue
		}
		if _, exists := volumes[name]; !exists {
			encounterOrder = append(encounterOrder, name)
		}
		volumes[name] += vol
	}

	// A column is numeric when it parses in more than 20% of rows, and in
	// more than one row regardless of dataset size. Sparse or mixed columns
	// (currency strings, blanks) stay in, mostly-empty ones stay out.
	threshold := math.Max(1, float64(len(rows))*0.2)
	numericColumns := make([]string, 0, len(numericCounts))
	for col := range observed {
		if float64(numericCounts[col]) > threshold {
			numericColumns = append(numericColumns, col)
		}
	}
	sort.Strings(numericColumns)

	top := make([]models.TopProduct, 0, len(encounterOrder))
	for _, name := range encounterOrder {
		top = append(top, models.TopProduct{Name: name, Volume: volumes[name]})
	}
	// Stable sort keeps encounter order for tied volumes.
	sort.SliceStable(top, func(i, j int) bool { return top[i].Volume > top[j].Volume })
	if len(top) > topProductsCap {
		top = top[:topProductsCap]
	}

	return models.Summary{
		RowCount:       len(rows),
		NumericColumns: numericColumns,
		TopProducts:    top,
		Mapping:        mapping,
	}
}

// SampleOf returns the capped row prefix used as few-shot context for the
// insights call and for local KPI arithmetic.
func SampleOf(rows []models.Row) []models.Row {
	if rows == nil {
		return []models.Row{}
	}
	if len(rows) > sampleCap {
		return rows[:sampleCap]
	}
	return rows
}
