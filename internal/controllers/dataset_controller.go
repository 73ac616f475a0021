package controllers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quickdash/backend/internal/logger"
	"github.com/quickdash/backend/internal/middleware"
	"github.com/quickdash/backend/internal/models"
	"github.com/quickdash/backend/internal/services"
)

type DatasetController struct {
	db       *gorm.DB
	resolver *services.InsightResolver
	store    *services.AnalysisStore
	fixtures *services.FixtureProvider
}

func NewDatasetController(db *gorm.DB, resolver *services.InsightResolver, store *services.AnalysisStore, fixtures *services.FixtureProvider) *DatasetController {
	return &DatasetController{
		db:       db,
		resolver: resolver,
		store:    store,
		fixtures: fixtures,
	}
}

// UploadDataset handles a dataset upload: parse, summarize, resolve insights
// and persist the analysis slots. Only parse failures are user-visible
// errors; the insights round-trip degrades to the fallback instead of failing.
func (dc *DatasetController) UploadDataset(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".csv" && ext != ".json" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only CSV and JSON files are supported"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer src.Close()

	var rows []models.Row
	var columns []string
	if ext == ".csv" {
		rows, columns, err = services.ParseCSV(src)
	} else {
		rows, columns, err = services.ParseJSONRows(src)
	}
	if err != nil {
		logger.Error("Upload parse failed", map[string]interface{}{
			"filename": file.Filename,
			"error":    err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse file. Please upload a valid CSV."})
		return
	}

	var mapping models.ColumnMapping
	if raw := c.PostForm("mapping"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mapping"})
			return
		}
	}
	mapping = models.AutoMapColumns(mapping, columns)

	dc.runPipeline(c, sessionIDFrom(c), file.Filename, "upload", file.Size, rows, len(columns), mapping)
}

// LoadPreset runs the pipeline over an embedded demo dataset.
func (dc *DatasetController) LoadPreset(c *gin.Context) {
	name := c.Param("name")
	csvText, ok := dc.fixtures.Preset(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Unknown preset",
			"presets": dc.fixtures.Names(),
		})
		return
	}

	rows, columns, err := services.ParseCSV(strings.NewReader(csvText))
	if err != nil {
		logger.Error("Preset parse failed", map[string]interface{}{
			"preset": name,
			"error":  err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load preset"})
		return
	}

	mapping := models.AutoMapColumns(models.ColumnMapping{}, columns)
	dc.runPipeline(c, sessionIDFrom(c), name+".csv", "preset", int64(len(csvText)), rows, len(columns), mapping)
}

// runPipeline is the shared upload/preset tail: record the dataset, sample,
// summarize, resolve insights and persist the three analysis slots.
func (dc *DatasetController) runPipeline(c *gin.Context, sessionID, filename, source string, size int64, rows []models.Row, columnCount int, mapping models.ColumnMapping) {
	dataset := models.Dataset{
		SessionID:   sessionID,
		Filename:    filename,
		Size:        size,
		RowCount:    len(rows),
		ColumnCount: columnCount,
		Source:      source,
		Status:      "processing",
	}
	if err := dc.db.Create(&dataset).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save dataset record"})
		return
	}

	sample := services.SampleOf(rows)
	summary := services.Summarize(rows, mapping)
	result := dc.resolver.Resolve(c.Request.Context(), sample, summary, mapping)

	if err := dc.store.Save(sessionID, dataset.ID, result, summary, sample); err != nil {
		logger.Error("Failed to persist analysis slots", map[string]interface{}{
			"dataset_id": dataset.ID,
			"session_id": sessionID,
			"error":      err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist analysis"})
		return
	}

	now := time.Now()
	dataset.Status = "processed"
	dataset.ProcessedAt = &now
	if err := dc.db.Save(&dataset).Error; err != nil {
		logger.Warn("Failed to update dataset status", map[string]interface{}{
			"dataset_id": dataset.ID,
			"error":      err.Error(),
		})
	}

	token, err := middleware.IssueSessionToken(sessionID)
	if err != nil {
		logger.Error("Failed to issue session token", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue session token"})
		return
	}

	logger.WithDataset(dataset.ID, filename).Info("Dataset processed")

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Dataset processed successfully",
		"dataset":  dataset,
		"analysis": result,
		"summary":  summary,
		"token":    token,
	})
}

// UploadRawFile parses an uploaded CSV server-side and returns the rows and
// detected columns without running the analysis pipeline.
func (dc *DatasetController) UploadRawFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file"})
		return
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only CSV server-side parsing is supported"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer src.Close()

	rows, columns, err := services.ParseCSV(src)
	if err != nil {
		logger.Error("Raw file parse failed", map[string]interface{}{
			"filename": file.Filename,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server parse failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": rows, "columns": columns})
}

// GetAnalysis returns all persisted analysis slots for the session. Missing
// slots come back as null; consumers treat absent keys as defaults.
func (dc *DatasetController) GetAnalysis(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionContextKey)

	slots, err := dc.store.Load(sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analysis"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response": slots[models.SlotResponse],
		"summary":  slots[models.SlotSummary],
		"sample":   slots[models.SlotSample],
	})
}

// GetAnalysisSlot returns one named analysis slot for the session.
func (dc *DatasetController) GetAnalysisSlot(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionContextKey)

	var slot string
	switch c.Param("slot") {
	case "response":
		slot = models.SlotResponse
	case "summary":
		slot = models.SlotSummary
	case "sample":
		slot = models.SlotSample
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown slot"})
		return
	}

	payload, err := dc.store.LoadSlot(sessionID, slot)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analysis"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"slot": slot, "payload": payload})
}

// GetDatasets returns the session's datasets with pagination.
func (dc *DatasetController) GetDatasets(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionContextKey)

	var datasets []models.Dataset
	query := dc.db.Where("session_id = ?", sessionID).Order("created_at DESC")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset := (page - 1) * limit

	if err := query.Offset(offset).Limit(limit).Find(&datasets).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch datasets"})
		return
	}

	var total int64
	dc.db.Model(&models.Dataset{}).Where("session_id = ?", sessionID).Count(&total)

	c.JSON(http.StatusOK, gin.H{
		"datasets": datasets,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetDataset returns a specific dataset record.
func (dc *DatasetController) GetDataset(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionContextKey)

	datasetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset ID"})
		return
	}

	var dataset models.Dataset
	if err := dc.db.First(&dataset, datasetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dataset"})
		}
		return
	}

	if dataset.SessionID != sessionID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"dataset": dataset})
}

// sessionIDFrom reuses the caller's session when a valid token accompanies
// the request, so a re-upload overwrites that session's slots. Otherwise it
// starts a fresh session.
func sessionIDFrom(c *gin.Context) string {
	if sessionID, ok := middleware.ParseSessionToken(c.GetHeader("Authorization")); ok {
		return sessionID
	}
	return uuid.NewString()
}
