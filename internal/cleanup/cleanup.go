package cleanup

import (
	"context"
	"fmt"
	"time"

	"burim-estate/internal/logger"
	"burim-estate/internal/models"

	"gorm.io/gorm"
)

// Service handles physical deletion of stale draft news
type Service struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

// NewService creates a new cleanup service
func NewService(db *gorm.DB, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{db: db, log: log, now: time.Now}
}

// CleanupConfig holds configuration for cleanup operations
type CleanupConfig struct {
	RetentionDays    int  // Days to keep unpublished drafts before physical deletion (default: 30)
	MaxDeletionCount int  // Maximum number of drafts to delete in one run (safety limit)
	DryRun           bool // If true, only log what would be deleted without actually deleting
}

// DefaultCleanupConfig returns default configuration
func DefaultCleanupConfig() CleanupConfig {
	return CleanupConfig{
		RetentionDays:    30,
		MaxDeletionCount: 500,
		DryRun:           false,
	}
}

// CleanupResult holds the result of a cleanup operation
type CleanupResult struct {
	TargetCount  int       `json:"target_count"`     // Number of drafts eligible for deletion
	DeletedCount int       `json:"deleted_count"`    // Number of drafts actually deleted
	ErrorCount   int       `json:"error_count"`      // Number of errors encountered
	DryRun       bool      `json:"dry_run"`          // Whether this was a dry run
	ExecutedAt   time.Time `json:"executed_at"`      // When the cleanup was executed
	DeletedNews  []string  `json:"deleted_news"`     // IDs of deleted drafts
	Errors       []string  `json:"errors,omitempty"` // Error messages
}

// FindStaleDrafts finds drafts that were never published within retentionDays
func (s *Service) FindStaleDrafts(ctx context.Context, retentionDays int) ([]models.NewsItem, error) {
	var items []models.NewsItem

	cutoffDate := s.now().AddDate(0, 0, -retentionDays)

	err := s.db.WithContext(ctx).Where("status = ? AND created_at < ?",
		models.NewsStatusDraft,
		cutoffDate,
	).Order("created_at ASC").Find(&items).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find stale drafts: %w", err)
	}

	s.log.Debug("[Cleanup] Found %d drafts created before %s", len(items), cutoffDate.Format("2006-01-02"))
	return items, nil
}

// PhysicallyDelete performs physical deletion of stale drafts
func (s *Service) PhysicallyDelete(ctx context.Context, config CleanupConfig) (*CleanupResult, error) {
	result := &CleanupResult{
		DryRun:      config.DryRun,
		ExecutedAt:  s.now(),
		DeletedNews: []string{},
	}

	staleDrafts, err := s.FindStaleDrafts(ctx, config.RetentionDays)
	if err != nil {
		return nil, err
	}

	result.TargetCount = len(staleDrafts)

	if result.TargetCount == 0 {
		s.log.Info("[Cleanup] No stale drafts found for deletion")
		return result, nil
	}

	// Safety check: abort if too many drafts would be deleted
	if config.MaxDeletionCount > 0 && result.TargetCount > config.MaxDeletionCount {
		return nil, fmt.Errorf("safety check failed: %d drafts exceed max deletion limit of %d",
			result.TargetCount, config.MaxDeletionCount)
	}

	s.log.Info("[Cleanup] Starting cleanup: %d drafts to delete (retention: %d days, dry-run: %v)",
		result.TargetCount, config.RetentionDays, config.DryRun)

	for _, item := range staleDrafts {
		if config.DryRun {
			s.log.Info("[Cleanup] [DRY-RUN] Would delete draft %s (Title: %s, CreatedAt: %s)",
				item.ID, item.Title, item.CreatedAt.Format("2006-01-02"))
			result.DeletedNews = append(result.DeletedNews, item.ID)
			result.DeletedCount++
			continue
		}

		if err := s.deleteDraft(ctx, item); err != nil {
			errMsg := err.Error()
			s.log.Error("[Cleanup] %s", errMsg)
			result.Errors = append(result.Errors, errMsg)
			result.ErrorCount++
			continue
		}

		s.log.Debug("[Cleanup] Physically deleted draft %s (Title: %s)", item.ID, item.Title)
		result.DeletedNews = append(result.DeletedNews, item.ID)
		result.DeletedCount++
	}

	s.log.Info("[Cleanup] Cleanup completed: %d/%d deleted, %d errors (dry-run: %v)",
		result.DeletedCount, result.TargetCount, result.ErrorCount, config.DryRun)

	return result, nil
}

// deleteDraft writes the audit row and removes the draft atomically
func (s *Service) deleteDraft(ctx context.Context, item models.NewsItem) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleteLog := models.DeleteLog{
			EntityType: models.EntityNews,
			EntityID:   item.ID,
			Title:      item.Title,
			SourceURL:  item.SourceURL,
			Reason:     models.DeleteReasonStaleDraft,
		}
		if err := tx.Create(&deleteLog).Error; err != nil {
			return fmt.Errorf("failed to create delete log for draft %s: %w", item.ID, err)
		}

		// Guard against a draft published since it was selected
		res := tx.Where("id = ? AND status = ?", item.ID, models.NewsStatusDraft).Delete(&models.NewsItem{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete draft %s: %w", item.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("draft %s was published or removed during cleanup", item.ID)
		}
		return nil
	})
}

// DeleteStats summarizes the delete log
type DeleteStats struct {
	TotalDeleted     int64            `json:"total_deleted"`
	ByReason         map[string]int64 `json:"by_reason"`
	ByEntity         map[string]int64 `json:"by_entity"`
	DeletedLast30    int64            `json:"deleted_last_30_days"`
	StaleDraftsReady int              `json:"stale_drafts_ready_for_deletion"`
}

// GetDeleteStats returns statistics about deleted rows
func (s *Service) GetDeleteStats(ctx context.Context, retentionDays int) (*DeleteStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DeleteStats{
		ByReason: make(map[string]int64),
		ByEntity: make(map[string]int64),
	}

	if err := db.Model(&models.DeleteLog{}).Count(&stats.TotalDeleted).Error; err != nil {
		return nil, err
	}

	var reasonCounts []struct {
		Reason string
		Count  int64
	}
	if err := db.Model(&models.DeleteLog{}).
		Select("reason, count(*) as count").
		Group("reason").
		Scan(&reasonCounts).Error; err != nil {
		return nil, err
	}
	for _, rc := range reasonCounts {
		stats.ByReason[rc.Reason] = rc.Count
	}

	var entityCounts []struct {
		EntityType string
		Count      int64
	}
	if err := db.Model(&models.DeleteLog{}).
		Select("entity_type, count(*) as count").
		Group("entity_type").
		Scan(&entityCounts).Error; err != nil {
		return nil, err
	}
	for _, ec := range entityCounts {
		stats.ByEntity[ec.EntityType] = ec.Count
	}

	thirtyDaysAgo := s.now().AddDate(0, 0, -30)
	if err := db.Model(&models.DeleteLog{}).
		Where("deleted_at >= ?", thirtyDaysAgo).
		Count(&stats.DeletedLast30).Error; err != nil {
		return nil, err
	}

	stale, err := s.FindStaleDrafts(ctx, retentionDays)
	if err != nil {
		return nil, err
	}
	stats.StaleDraftsReady = len(stale)

	return stats, nil
}

// GetRecentDeleteLogs returns recent delete log entries
func (s *Service) GetRecentDeleteLogs(ctx context.Context, limit int) ([]models.DeleteLog, error) {
	logs := []models.DeleteLog{}
	query := s.db.WithContext(ctx).Order("deleted_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&logs).Error
	return logs, err
}
