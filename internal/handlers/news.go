package handlers

import (
	"context"
	"net/http"

	"burim-estate/internal/database"
	"burim-estate/internal/logger"
	"burim-estate/internal/models"
	"burim-estate/internal/news"

	"github.com/gin-gonic/gin"
)

// NewsRunner runs the ingestion pipeline
type NewsRunner interface {
	Run(ctx context.Context) (*news.Result, error)
	Quota(ctx context.Context) (used, limit int, err error)
}

// NewsHandler serves public and admin news routes
type NewsHandler struct {
	db       *database.GormDB
	pipeline NewsRunner
	log      *logger.Logger
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(db *database.GormDB, pipeline NewsRunner, log *logger.Logger) *NewsHandler {
	return &NewsHandler{db: db, pipeline: pipeline, log: log}
}

// ListPublished returns published reports, newest first
func (h *NewsHandler) ListPublished(c *gin.Context) {
	items, err := h.db.ListPublishedNews(c.Request.Context(), queryLimit(c, 0))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetPublished returns one published report by slug
func (h *NewsHandler) GetPublished(c *gin.Context) {
	item, err := h.db.GetPublishedNewsBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// AdminList returns reports, optionally filtered by status
func (h *NewsHandler) AdminList(c *gin.Context) {
	status := models.NewsStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	items, err := h.db.ListNews(c.Request.Context(), status)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"news":  items,
		"count": len(items),
	})
}

// AdminGet returns a report in any status
func (h *NewsHandler) AdminGet(c *gin.Context) {
	item, err := h.db.GetNewsByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// AdminUpdate edits the generated text or publishes a draft
func (h *NewsHandler) AdminUpdate(c *gin.Context) {
	var patch database.NewsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	item, err := h.db.UpdateNews(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// AdminDelete removes a report
func (h *NewsHandler) AdminDelete(c *gin.Context) {
	if err := h.db.DeleteNews(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "News deleted"})
}

// Fetch runs the ingestion pipeline and reports what it did
func (h *NewsHandler) Fetch(c *gin.Context) {
	h.log.Info("[News] Manual fetch requested")

	result, err := h.pipeline.Run(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
