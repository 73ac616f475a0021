package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/quickdash/backend/internal/models"
)

// rowLimit matches the preview cap the upload page's parser has always used.
const rowLimit = 5000

// ParseCSV reads header-keyed rows from r. Records shorter than the header
// pad missing columns with empty values; completely empty lines are skipped.
// Malformed input (unbalanced quotes and the like) is a user-visible error,
// the pipeline must not run on a partially parsed file.
func ParseCSV(r io.Reader) ([]models.Row, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []models.Row{}, []string{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]models.Row, 0)
	for len(rows) < rowLimit {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse CSV record: %w", err)
		}
		if isEmptyRecord(record) {
			continue
		}

		row := make(models.Row, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, header, nil
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// ParseJSONRows accepts a top-level JSON array of flat objects. Non-string
// scalars are rendered to their text form so downstream numeric inference
// sees the same values a CSV upload would carry.
func ParseJSONRows(r io.Reader) ([]models.Row, []string, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse JSON rows: %w", err)
	}
	if len(raw) > rowLimit {
		raw = raw[:rowLimit]
	}

	rows := make([]models.Row, 0, len(raw))
	seen := make(map[string]bool)
	for _, obj := range raw {
		row := make(models.Row, len(obj))
		for col, value := range obj {
			row[col] = stringifyValue(value)
			seen[col] = true
		}
		rows = append(rows, row)
	}

	columns := make([]string, 0, len(seen))
	for col := range seen {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	return rows, columns, nil
}

func stringifyValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		encoded, _ := json.Marshal(v)
		return string(encoded)
	}
}
