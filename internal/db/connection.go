package db

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/quickdash/backend/internal/models"
)

var DB *gorm.DB

// Connect initializes the database connection
func Connect() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})

	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("✅ Database connected successfully")
}

// AutoMigrate runs database migrations
func AutoMigrate() {
	log.Println("Migrating Dataset model...")
	if err := DB.AutoMigrate(&models.Dataset{}); err != nil {
		log.Printf("Dataset migration failed: %v", err)
		return
	}
	log.Println("✅ Dataset table migrated successfully")

	log.Println("Migrating AnalysisSlot model...")
	if err := DB.AutoMigrate(&models.AnalysisSlot{}); err != nil {
		log.Printf("AnalysisSlot migration failed: %v", err)
		return
	}
	log.Println("✅ AnalysisSlot table migrated successfully")

	log.Println("✅ All database migrations completed successfully")
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
