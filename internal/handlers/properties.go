package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"burim-estate/internal/database"
	"burim-estate/internal/history"
	"burim-estate/internal/listing"
	"burim-estate/internal/logger"
	"burim-estate/internal/models"

	"github.com/gin-gonic/gin"
)

// SearchIndex is the secondary listing index kept in sync with admin writes
type SearchIndex interface {
	IndexProperty(property *models.Property) error
	IndexProperties(properties []models.Property) error
	DeleteProperty(id string) error
	Search(query string, f listing.Filter) ([]string, int64, error)
	Healthy() bool
}

// PropertyHandler serves listing routes
type PropertyHandler struct {
	db      *database.GormDB
	engine  *listing.Engine
	search  SearchIndex
	history *history.Service
	log     *logger.Logger
}

// NewPropertyHandler creates a new property handler. search may be nil.
func NewPropertyHandler(db *database.GormDB, engine *listing.Engine, search SearchIndex, hist *history.Service, log *logger.Logger) *PropertyHandler {
	return &PropertyHandler{db: db, engine: engine, search: search, history: hist, log: log}
}

// ListLatest returns the newest active listings
func (h *PropertyHandler) ListLatest(c *gin.Context) {
	f := listing.ParseParams(c.Request.URL.Query())
	properties, err := h.engine.Latest(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, properties)
}

// ByCategory returns a collection page with its preset applied
func (h *PropertyHandler) ByCategory(c *gin.Context) {
	info, ok := listing.LookupCategory(c.Param("category"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	f := info.Apply(listing.ParseParams(c.Request.URL.Query()))
	properties, err := h.engine.Find(c.Request.Context(), f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category":   info,
		"properties": properties,
		"count":      len(properties),
	})
}

// GetByID returns one listing
func (h *PropertyHandler) GetByID(c *gin.Context) {
	property, err := h.db.GetPropertyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// GetBySlug is the public detail view; it counts the view
func (h *PropertyHandler) GetBySlug(c *gin.Context) {
	property, err := h.db.ViewPropertyBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// Search uses the search index when available and falls back to the engine
func (h *PropertyHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()
	f := listing.ParseParams(c.Request.URL.Query())

	if h.search != nil {
		ids, total, err := h.search.Search(f.Query, f)
		if err == nil {
			properties, err := h.db.GetPropertiesByIDs(ctx, ids)
			if err != nil {
				respondError(c, h.log, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"properties": properties,
				"total":      total,
				"source":     "meilisearch",
			})
			return
		}
		h.log.Warn("[Search API] Meilisearch query failed, falling back to database: %v", err)
	}

	properties, err := h.engine.Latest(ctx, f)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"total":      len(properties),
		"source":     "database",
	})
}

// AdminList returns every listing regardless of status
func (h *PropertyHandler) AdminList(c *gin.Context) {
	properties, err := h.db.ListProperties(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"count":      len(properties),
	})
}

// Create inserts a listing
func (h *PropertyHandler) Create(c *gin.Context) {
	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// server-managed fields
	property.ID = ""
	property.ViewCount = 0

	ctx := c.Request.Context()
	if err := h.db.CreateProperty(ctx, &property); err != nil {
		respondError(c, h.log, err)
		return
	}

	if h.history != nil {
		if err := h.history.RecordNew(ctx, &property); err != nil {
			h.log.Warn("[Property] %v", err)
		}
	}
	h.index(&property)

	c.JSON(http.StatusCreated, property)
}

// Update applies a partial JSON edit to a listing
func (h *PropertyHandler) Update(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	before, after, err := h.db.UpdateProperty(ctx, c.Param("id"), func(p *models.Property) error {
		viewCount := p.ViewCount
		if err := json.Unmarshal(body, p); err != nil {
			return fmt.Errorf("%w: %v", database.ErrValidation, err)
		}
		p.ViewCount = viewCount
		return nil
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if h.history != nil {
		if changes, err := h.history.RecordChanges(ctx, &before, after); err != nil {
			h.log.Warn("[Property] %v", err)
		} else if len(changes) > 0 {
			h.log.Info("[Property] Detected %d changes for property %s", len(changes), after.ID)
		}
	}
	h.index(after)

	c.JSON(http.StatusOK, after)
}

// Delete removes a listing and its inquiries
func (h *PropertyHandler) Delete(c *gin.Context) {
	deleted, err := h.db.DeleteProperty(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if h.search != nil {
		if err := h.search.DeleteProperty(deleted.ID); err != nil {
			h.log.Warn("[Search API] Failed to remove property %s from index: %v", deleted.ID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Property deleted", "id": deleted.ID})
}

// History returns the change history of a listing
func (h *PropertyHandler) History(c *gin.Context) {
	ctx := c.Request.Context()
	propertyID := c.Param("id")

	if _, err := h.db.GetPropertyByID(ctx, propertyID); err != nil {
		respondError(c, h.log, err)
		return
	}

	changes, err := h.history.GetPropertyHistory(ctx, propertyID, queryLimit(c, 30))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"property_id": propertyID,
		"changes":     changes,
		"count":       len(changes),
	})
}

func (h *PropertyHandler) index(p *models.Property) {
	if h.search == nil {
		return
	}
	if err := h.search.IndexProperty(p); err != nil {
		h.log.Warn("[Search API] Failed to index property %s: %v", p.ID, err)
	}
}

// reindexAll replaces the search index contents with the database rows
func reindexAll(ctx context.Context, db *database.GormDB, search SearchIndex) (int, error) {
	properties, err := db.ListProperties(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch properties from database: %w", err)
	}
	if err := search.IndexProperties(properties); err != nil {
		return 0, fmt.Errorf("failed to index properties: %w", err)
	}
	return len(properties), nil
}
