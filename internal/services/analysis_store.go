package services

import (
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quickdash/backend/internal/models"
)

// AnalysisStore persists the three session-scoped analysis slots the
// analysis page reads: the insight result, the summary and the row sample.
type AnalysisStore struct {
	db *gorm.DB
}

func NewAnalysisStore(db *gorm.DB) *AnalysisStore {
	return &AnalysisStore{db: db}
}

// Save writes all three slots for a session. Each slot write is a single-row
// upsert keyed by (session, slot), so a new upload atomically replaces the
// previous analysis.
func (s *AnalysisStore) Save(sessionID string, datasetID uint, result models.InsightResult, summary models.Summary, sample []models.Row) error {
	slots := []struct {
		name    string
		payload any
	}{
		{models.SlotResponse, result},
		{models.SlotSummary, summary},
		{models.SlotSample, sample},
	}

	for _, slot := range slots {
		doc, err := json.Marshal(slot.payload)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", slot.name, err)
		}
		record := models.AnalysisSlot{
			SessionID: sessionID,
			Slot:      slot.name,
			DatasetID: datasetID,
			Payload:   models.JSONDocument(doc),
		}
		if err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"dataset_id", "payload", "updated_at"}),
		}).Create(&record).Error; err != nil {
			return fmt.Errorf("failed to persist %s: %w", slot.name, err)
		}
	}
	return nil
}

// Load returns the persisted slots for a session keyed by slot name. Missing
// slots are simply absent; consumers treat absent keys as defaults.
func (s *AnalysisStore) Load(sessionID string) (map[string]models.JSONDocument, error) {
	var records []models.AnalysisSlot
	if err := s.db.Where("session_id = ?", sessionID).Find(&records).Error; err != nil {
		return nil, err
	}

	out := make(map[string]models.JSONDocument, len(records))
	for _, record := range records {
		out[record.Slot] = record.Payload
	}
	return out, nil
}

// LoadSlot returns one named slot for a session.
func (s *AnalysisStore) LoadSlot(sessionID, slot string) (models.JSONDocument, error) {
	var record models.AnalysisSlot
	if err := s.db.Where("session_id = ? AND slot = ?", sessionID, slot).First(&record).Error; err != nil {
		return nil, err
	}
	return record.Payload, nil
}
