package handlers

import (
	"net/http"

	"burim-estate/internal/config"
	"burim-estate/internal/database"
	"burim-estate/internal/logger"

	"github.com/gin-gonic/gin"
)

// SettingsHandler serves the office contact settings
type SettingsHandler struct {
	db       *database.GormDB
	defaults config.SiteConfig
	log      *logger.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(db *database.GormDB, defaults config.SiteConfig, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{db: db, defaults: defaults, log: log}
}

// Get returns the settings, creating them from defaults on first use
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.db.GetSiteSettings(c.Request.Context(), h.defaults)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Update changes the provided fields only
func (h *SettingsHandler) Update(c *gin.Context) {
	var patch database.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	settings, err := h.db.UpdateSiteSettings(c.Request.Context(), h.defaults, patch)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
