package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/quickdash/backend/internal/db"
	"github.com/quickdash/backend/internal/models"
	"github.com/quickdash/backend/internal/services"
)

// Seeds demo analyses by running the embedded preset datasets through the
// real pipeline. The insights endpoint is usually unreachable at seed time,
// so the persisted results come from the deterministic fallback path.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Connect to database
	db.Connect()

	// Run migrations first
	log.Println("Running database migrations...")
	db.AutoMigrate()

	log.Println("Seeding database with preset analyses...")
	if err := seedPresets(); err != nil {
		log.Printf("Error seeding presets: %v", err)
		return
	}

	log.Println("✅ Database seeding completed successfully!")
}

func seedPresets() error {
	fixtures := services.NewFixtureProvider()
	resolver := services.NewInsightResolver("")
	store := services.NewAnalysisStore(db.DB)

	for _, name := range fixtures.Names() {
		csvText, _ := fixtures.Preset(name)

		rows, columns, err := services.ParseCSV(strings.NewReader(csvText))
		if err != nil {
			log.Printf("Error parsing preset %s: %v", name, err)
			continue
		}

		sessionID := uuid.NewString()
		dataset := models.Dataset{
			SessionID:   sessionID,
			Filename:    name + ".csv",
			Size:        int64(len(csvText)),
			RowCount:    len(rows),
			ColumnCount: len(columns),
			Source:      "preset",
			Status:      "processing",
		}
		if err := db.DB.Create(&dataset).Error; err != nil {
			log.Printf("Error creating dataset record for %s: %v", name, err)
			continue
		}

		mapping := models.AutoMapColumns(models.ColumnMapping{}, columns)
		sample := services.SampleOf(rows)
		summary := services.Summarize(rows, mapping)
		result := resolver.Resolve(context.Background(), sample, summary, mapping)

		if err := store.Save(sessionID, dataset.ID, result, summary, sample); err != nil {
			log.Printf("Error persisting analysis for %s: %v", name, err)
			continue
		}

		now := time.Now()
		dataset.Status = "processed"
		dataset.ProcessedAt = &now
		if err := db.DB.Save(&dataset).Error; err != nil {
			log.Printf("Error updating dataset status for %s: %v", name, err)
			continue
		}

		log.Printf("✅ Seeded preset: %s (session %s, %d rows)", name, sessionID, len(rows))
	}

	return nil
}
