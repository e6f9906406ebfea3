package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"housemetrics/server/internal/database"
	"housemetrics/server/internal/models"
	"housemetrics/server/internal/predictor"
)

const serviceVersion = "1.0.0"

type Handler struct {
	db        *database.Database
	predictor *predictor.Predictor
	logger    *logrus.Logger
}

// NewHandler builds the API handler. The predictor may be nil when no model
// artifact was available at startup; the predict endpoint then degrades to
// service-unavailable.
func NewHandler(db *database.Database, pred *predictor.Predictor, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:        db,
		predictor: pred,
		logger:    logger,
	}
}

func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Housing Price Analysis API",
		"version": serviceVersion,
		"status":  "running",
	})
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		h.logger.WithError(err).Error("Health check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Health check failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) SearchProperties(c *gin.Context) {
	var req models.PropertySearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse search request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	results, err := h.db.SearchProperties(req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to search properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	if results == nil {
		results = []models.PropertyResponse{}
	}
	c.JSON(http.StatusOK, results)
}

func (h *Handler) PredictPrice(c *gin.Context) {
	if h.predictor == nil || !h.predictor.Trained() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Price prediction model not available"})
		return
	}

	var req models.PropertyPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse prediction request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	prediction, err := h.predictor.PredictSingle(req, time.Now().Year())
	if err != nil {
		h.logger.WithError(err).Error("Failed to predict property price")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction failed"})
		return
	}

	c.JSON(http.StatusOK, prediction)
}

func (h *Handler) GetMarketTrends(c *gin.Context) {
	zipCode := c.Query("zip_code")

	days := 30
	if daysStr := c.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days parameter"})
			return
		}
		days = parsed
	}

	trends, err := h.db.GetMarketTrends(zipCode, days, time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get market trends")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get market trends"})
		return
	}

	if trends == nil {
		trends = []models.MarketTrendResponse{}
	}
	c.JSON(http.StatusOK, trends)
}

func (h *Handler) GetMarketSummary(c *gin.Context) {
	summary, err := h.db.GetMarketSummary()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get market summary")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get market summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) GetProperty(c *gin.Context) {
	id := c.Param("id")

	property, err := h.db.GetProperty(id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get property details")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property details"})
		return
	}

	c.JSON(http.StatusOK, property)
}
