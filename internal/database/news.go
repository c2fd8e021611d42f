package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"burim-estate/internal/models"

	"gorm.io/gorm"
)

// CountNewsWithSlugPrefix counts news rows whose slug starts with prefix
func (gdb *GormDB) CountNewsWithSlugPrefix(ctx context.Context, prefix string) (int, error) {
	var count int64
	err := gdb.db.WithContext(ctx).Model(&models.NewsItem{}).
		Where("slug LIKE ?", prefix+"%").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count news: %w", err)
	}
	return int(count), nil
}

// NewsExistsBySourceOrTitle reports whether a row already has the source URL
// or the exact title. Empty arguments are not matched.
func (gdb *GormDB) NewsExistsBySourceOrTitle(ctx context.Context, sourceURL, title string) (bool, error) {
	q := gdb.db.WithContext(ctx).Model(&models.NewsItem{})
	switch {
	case sourceURL != "" && title != "":
		q = q.Where("source_url = ? OR title = ?", sourceURL, title)
	case sourceURL != "":
		q = q.Where("source_url = ?", sourceURL)
	case title != "":
		q = q.Where("title = ?", title)
	default:
		return false, nil
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check news duplicate: %w", err)
	}
	return count > 0, nil
}

// CreateNews inserts a news row
func (gdb *GormDB) CreateNews(ctx context.Context, item *models.NewsItem) error {
	if err := gdb.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create news: %w", err)
	}
	return nil
}

// ListPublishedNews returns published news, most recently published first
func (gdb *GormDB) ListPublishedNews(ctx context.Context, limit int) ([]models.NewsItem, error) {
	var items []models.NewsItem
	q := gdb.db.WithContext(ctx).
		Where("status = ?", models.NewsStatusPublished).
		Order("published_at DESC").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&items).Error
	return items, err
}

// GetPublishedNewsBySlug returns a published item; drafts are reported as not found
func (gdb *GormDB) GetPublishedNewsBySlug(ctx context.Context, slug string) (*models.NewsItem, error) {
	var item models.NewsItem
	err := gdb.db.WithContext(ctx).
		Where("slug = ? AND status = ?", slug, models.NewsStatusPublished).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNewsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListNews returns every news row for the admin, newest first
func (gdb *GormDB) ListNews(ctx context.Context, status models.NewsStatus) ([]models.NewsItem, error) {
	var items []models.NewsItem
	q := gdb.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&items).Error
	return items, err
}

// GetNewsByID retrieves a news row by ID
func (gdb *GormDB) GetNewsByID(ctx context.Context, id string) (*models.NewsItem, error) {
	var item models.NewsItem
	err := gdb.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNewsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// NewsPatch holds the admin-editable news fields; nil fields are left unchanged
type NewsPatch struct {
	AITitle   *string            `json:"ai_title"`
	AIContent *string            `json:"ai_content"`
	Status    *models.NewsStatus `json:"status"`
}

// UpdateNews applies an admin edit. The first move to PUBLISHED stamps published_at.
func (gdb *GormDB) UpdateNews(ctx context.Context, id string, patch NewsPatch) (*models.NewsItem, error) {
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *patch.Status)
	}

	var item models.NewsItem
	err := gdb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNewsNotFound
			}
			return err
		}

		if patch.AITitle != nil {
			item.AITitle = strings.TrimSpace(*patch.AITitle)
		}
		if patch.AIContent != nil {
			item.AIContent = *patch.AIContent
		}
		if patch.Status != nil {
			if *patch.Status == models.NewsStatusPublished {
				item.Publish(time.Now().In(gdb.loc))
			} else {
				item.Status = *patch.Status
			}
		}
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteNews removes a news row and records a delete log
func (gdb *GormDB) DeleteNews(ctx context.Context, id string) error {
	return gdb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.NewsItem
		if err := tx.Where("id = ?", id).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNewsNotFound
			}
			return err
		}

		if err := tx.Create(&models.DeleteLog{
			EntityType: models.EntityNews,
			EntityID:   item.ID,
			Title:      item.Title,
			SourceURL:  item.SourceURL,
			Reason:     models.DeleteReasonManual,
		}).Error; err != nil {
			return fmt.Errorf("failed to create delete log: %w", err)
		}

		return tx.Delete(&item).Error
	})
}

// CountNews returns the number of news rows per status
func (gdb *GormDB) CountNews(ctx context.Context) (map[models.NewsStatus]int64, error) {
	var rows []struct {
		Status models.NewsStatus
		Count  int64
	}
	if err := gdb.db.WithContext(ctx).Model(&models.NewsItem{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[models.NewsStatus]int64{
		models.NewsStatusDraft:     0,
		models.NewsStatusPublished: 0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
