package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"burim-estate/internal/cleanup"
	"burim-estate/internal/config"
	"burim-estate/internal/database"
	"burim-estate/internal/history"
	"burim-estate/internal/logger"
	"burim-estate/internal/models"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin-related requests
type AdminHandler struct {
	db             *database.GormDB
	search         SearchIndex
	news           NewsRunner
	history        *history.Service
	cleanupService *cleanup.Service
	cleanupConfig  config.CleanupConfig
	log            *logger.Logger
}

// NewAdminHandler creates a new admin handler. search may be nil.
func NewAdminHandler(db *database.GormDB, search SearchIndex, newsRunner NewsRunner, hist *history.Service, cleanupService *cleanup.Service, cleanupConfig config.CleanupConfig, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		db:             db,
		search:         search,
		news:           newsRunner,
		history:        hist,
		cleanupService: cleanupService,
		cleanupConfig:  cleanupConfig,
		log:            log,
	}
}

// GetStats returns dashboard statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	stats := make(map[string]interface{})

	// Property counts by status
	propertyCounts, err := h.db.CountProperties(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	stats["properties"] = map[string]interface{}{
		"active": propertyCounts[models.PropertyStatusActive],
		"sold":   propertyCounts[models.PropertyStatusSold],
		"total":  propertyCounts[models.PropertyStatusActive] + propertyCounts[models.PropertyStatusSold],
	}

	inquiryCount, err := h.db.CountInquiries(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	stats["inquiries"] = map[string]interface{}{
		"total": inquiryCount,
	}

	newsCounts, err := h.db.CountNews(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	newsStats := map[string]interface{}{
		"draft":     newsCounts[models.NewsStatusDraft],
		"published": newsCounts[models.NewsStatusPublished],
	}
	if h.news != nil {
		if used, limit, err := h.news.Quota(ctx); err != nil {
			h.log.Warn("[News] Failed to read daily quota: %v", err)
		} else {
			newsStats["today"] = used
			newsStats["daily_quota"] = limit
		}
	}
	stats["news"] = newsStats

	// Property changes (last 7 days)
	last7days := time.Now().AddDate(0, 0, -7)
	var recentChanges int64
	h.db.DB().WithContext(ctx).Model(&models.PropertyChange{}).Where("detected_at >= ?", last7days).Count(&recentChanges)
	stats["changes"] = map[string]interface{}{
		"last_7_days": recentChanges,
	}

	// Delete logs statistics
	deleteStats, err := h.cleanupService.GetDeleteStats(ctx, h.cleanupConfig.RetentionDays)
	if err != nil {
		h.log.Warn("[Admin] Failed to get delete stats: %v", err)
	} else {
		stats["deletions"] = deleteStats
	}

	c.JSON(http.StatusOK, stats)
}

// GetDistrictStats returns active listing counts by district
func (h *AdminHandler) GetDistrictStats(c *gin.Context) {
	type DistrictStat struct {
		District string `json:"district"`
		Count    int64  `json:"count"`
	}

	stats := []DistrictStat{}
	err := h.db.DB().WithContext(c.Request.Context()).Model(&models.Property{}).
		Select("district, count(*) as count").
		Where("status = ?", models.PropertyStatusActive).
		Group("district").
		Order("count DESC").
		Limit(20).
		Scan(&stats).Error

	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"district_stats": stats,
		"count":          len(stats),
	})
}

// PriceRange is one bucket of the price distribution, in 10,000 KRW
type PriceRange struct {
	RangeLabel string `json:"range_label"`
	Min        int64  `json:"min"`
	Max        int64  `json:"max"`
	Count      int64  `json:"count"`
}

// GetPriceDistribution returns active sale price and deposit distributions
func (h *AdminHandler) GetPriceDistribution(c *gin.Context) {
	db := h.db.DB().WithContext(c.Request.Context())

	saleRanges := []PriceRange{
		{RangeLabel: "~2억", Min: 0, Max: 20000},
		{RangeLabel: "2~4억", Min: 20000, Max: 40000},
		{RangeLabel: "4~6억", Min: 40000, Max: 60000},
		{RangeLabel: "6~9억", Min: 60000, Max: 90000},
		{RangeLabel: "9억~", Min: 90000, Max: 100000000},
	}
	depositRanges := []PriceRange{
		{RangeLabel: "~500", Min: 0, Max: 500},
		{RangeLabel: "500~1000", Min: 500, Max: 1000},
		{RangeLabel: "1000~5000", Min: 1000, Max: 5000},
		{RangeLabel: "5000~2억", Min: 5000, Max: 20000},
		{RangeLabel: "2억~", Min: 20000, Max: 100000000},
	}

	for i := range saleRanges {
		db.Model(&models.Property{}).
			Where("status = ? AND transaction_type = ? AND sale_price >= ? AND sale_price < ?",
				models.PropertyStatusActive, models.TransactionSale, saleRanges[i].Min, saleRanges[i].Max).
			Count(&saleRanges[i].Count)
	}
	for i := range depositRanges {
		db.Model(&models.Property{}).
			Where("status = ? AND transaction_type IN ? AND deposit >= ? AND deposit < ?",
				models.PropertyStatusActive, models.RentTransactionTypes, depositRanges[i].Min, depositRanges[i].Max).
			Count(&depositRanges[i].Count)
	}

	c.JSON(http.StatusOK, gin.H{
		"sale_price": saleRanges,
		"deposit":    depositRanges,
	})
}

// RunCleanup executes physical deletion of stale drafts
func (h *AdminHandler) RunCleanup(c *gin.Context) {
	var req struct {
		RetentionDays    int  `json:"retention_days"`     // Days to keep (default from config)
		MaxDeletionCount int  `json:"max_deletion_count"` // Safety limit (default from config)
		DryRun           bool `json:"dry_run"`
	}

	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Set defaults
	cfg := cleanup.DefaultCleanupConfig()
	if h.cleanupConfig.RetentionDays > 0 {
		cfg.RetentionDays = h.cleanupConfig.RetentionDays
	}
	if h.cleanupConfig.MaxDeletionCount > 0 {
		cfg.MaxDeletionCount = h.cleanupConfig.MaxDeletionCount
	}
	if req.RetentionDays > 0 {
		cfg.RetentionDays = req.RetentionDays
	}
	if req.MaxDeletionCount > 0 {
		cfg.MaxDeletionCount = req.MaxDeletionCount
	}
	cfg.DryRun = req.DryRun

	h.log.Info("[Admin] Running cleanup (retention: %d days, max: %d, dry-run: %v)",
		cfg.RetentionDays, cfg.MaxDeletionCount, cfg.DryRun)

	result, err := h.cleanupService.PhysicallyDelete(c.Request.Context(), cfg)
	if err != nil {
		h.log.Error("[Admin] Cleanup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDeleteLogs returns recent delete log entries
func (h *AdminHandler) GetDeleteLogs(c *gin.Context) {
	logs, err := h.cleanupService.GetRecentDeleteLogs(c.Request.Context(), queryLimit(c, 100))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"count": len(logs),
	})
}

// GetRecentChanges returns recent property changes
func (h *AdminHandler) GetRecentChanges(c *gin.Context) {
	changes, err := h.history.GetRecentChanges(c.Request.Context(), queryLimit(c, 100))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes": changes,
		"count":   len(changes),
	})
}

// Reindex rebuilds the search index from the database
func (h *AdminHandler) Reindex(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search index not configured"})
		return
	}

	h.log.Info("[Reindex] Starting full reindex of all properties")
	total, err := reindexAll(c.Request.Context(), h.db, h.search)
	if err != nil {
		h.log.Error("[Reindex] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reindex failed"})
		return
	}
	h.log.Info("[Reindex] Reindex complete. Indexed: %d", total)

	c.JSON(http.StatusOK, gin.H{
		"message": "Reindex complete",
		"total":   total,
	})
}
