package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Analysis slot names. These are the storage keys the analysis page reads;
// they predate this service and must stay stable.
const (
	SlotResponse = "analysis_response"
	SlotSummary  = "analysis_summary"
	SlotSample   = "analysis_sample"
)

// JSONDocument stores an arbitrary JSON payload in a jsonb column and passes
// it through untouched when re-serialized into API responses.
type JSONDocument json.RawMessage

func (d JSONDocument) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return []byte(d), nil
}

func (d *JSONDocument) Scan(value any) error {
	if value == nil {
		*d = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*d = append((*d)[0:0], v...)
		return nil
	case string:
		*d = JSONDocument(v)
		return nil
	default:
		return errors.New("unsupported jsonb source type")
	}
}

func (d JSONDocument) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

func (d *JSONDocument) UnmarshalJSON(data []byte) error {
	*d = append((*d)[0:0], data...)
	return nil
}

// Dataset records one uploaded (or preset-loaded) file and its pipeline
// status. Raw rows are not persisted beyond the capped sample slot.
type Dataset struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	SessionID   string         `json:"sessionId" gorm:"index;not null"`
	Filename    string         `json:"filename" gorm:"not null"`
	Size        int64          `json:"size"`
	RowCount    int            `json:"rowCount" gorm:"default:0"`
	ColumnCount int            `json:"columnCount" gorm:"default:0"`
	Source      string         `json:"source" gorm:"default:'upload'"` // upload, preset
	Status      string         `json:"status" gorm:"default:'pending'"` // pending, processing, processed, failed
	ProcessedAt *time.Time     `json:"processedAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// AnalysisSlot is one named, session-scoped analysis document. A new upload
// for the same session overwrites each slot in a single-row upsert.
type AnalysisSlot struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	SessionID string       `json:"sessionId" gorm:"uniqueIndex:idx_session_slot;not null"`
	Slot      string       `json:"slot" gorm:"uniqueIndex:idx_session_slot;not null"`
	DatasetID uint         `json:"datasetId" gorm:"index"`
	Payload   JSONDocument `json:"payload" gorm:"type:jsonb"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (Dataset) TableName() string {
	return "datasets"
}

func (AnalysisSlot) TableName() string {
	return "analysis_slots"
}
