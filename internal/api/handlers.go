package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/convertstack/driver-engine/internal/models"
	"github.com/convertstack/driver-engine/internal/services"
	"github.com/convertstack/driver-engine/internal/store"
)

const defaultListLimit = 20

type handlers struct {
	svc    *services.AnalysisService
	logger *slog.Logger
}

func newHandlers(svc *services.AnalysisService, logger *slog.Logger) *handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &handlers{svc: svc, logger: logger}
}

func registerRoutes(router *gin.Engine, h *handlers) {
	router.GET("/health", h.health)

	v1 := router.Group("/api/v1")
	v1.POST("/analyses", h.createAnalysis)
	v1.GET("/analyses", h.listAnalyses)
	v1.GET("/analyses/:id", h.getAnalysis)
}

// analyzeRequest is the POST body: one RawRow per exported user.
type analyzeRequest struct {
	Rows []models.RawRow `json:"rows"`
}

func (h *handlers) createAnalysis(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if len(req.Rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rows must not be empty"})
		return
	}

	result, err := h.svc.RunAnalysis(c.Request.Context(), req.Rows)
	if err != nil {
		h.logger.Error("analysis request failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) getAnalysis(c *gin.Context) {
	id := c.Param("id")
	result, err := h.svc.GetAnalysis(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
			return
		}
		h.logger.Error("analysis lookup failed", slog.String("id", id), slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) listAnalyses(c *gin.Context) {
	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	results, err := h.svc.ListAnalyses(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("analysis list failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if results == nil {
		results = []models.AnalysisResult{}
	}
	c.JSON(http.StatusOK, gin.H{"analyses": results})
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
