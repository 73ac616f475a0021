package routes

import (
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quickdash/backend/internal/controllers"
	"github.com/quickdash/backend/internal/middleware"
	"github.com/quickdash/backend/internal/services"
)

// SetupRoutes configures all application routes
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize services
	resolver := services.NewInsightResolver(os.Getenv("INSIGHTS_URL"))
	store := services.NewAnalysisStore(db)
	fixtures := services.NewFixtureProvider()
	generator := services.NewInsightsGenerator()

	// Initialize controllers
	datasetController := controllers.NewDatasetController(db, resolver, store, fixtures)
	insightsController := controllers.NewInsightsController(generator)

	// Endpoints the upload page calls directly; paths predate this service.
	r.POST("/ai-insights", insightsController.GenerateInsights)
	r.POST("/upload-raw-file", datasetController.UploadRawFile)

	// API routes
	api := r.Group("/api/v1")
	{
		datasets := api.Group("/datasets")
		{
			datasets.POST("/upload", datasetController.UploadDataset)
			datasets.POST("/preset/:name", datasetController.LoadPreset)
		}

		// Session-scoped routes
		protected := api.Group("/")
		protected.Use(middleware.SessionMiddleware())
		{
			protected.GET("/analysis", datasetController.GetAnalysis)
			protected.GET("/analysis/:slot", datasetController.GetAnalysisSlot)
			protected.GET("/datasets", datasetController.GetDatasets)
			protected.GET("/datasets/:id", datasetController.GetDataset)
		}
	}
}
