package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"burim-estate/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateProperty validates and inserts a new listing
func (gdb *GormDB) CreateProperty(ctx context.Context, p *models.Property) error {
	if err := validateProperty(p); err != nil {
		return err
	}
	if p.Slug == "" {
		p.Slug = NewPropertySlug(time.Now())
	}
	if err := gdb.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

// NewPropertySlug returns "<unix-millis>-<5 random chars>"
func NewPropertySlug(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), randomSuffix())
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
}

func validateProperty(p *models.Property) error {
	p.Title = strings.TrimSpace(p.Title)
	p.District = strings.TrimSpace(p.District)
	p.PropertyType = strings.TrimSpace(p.PropertyType)

	switch {
	case p.Title == "":
		return fmt.Errorf("%w: title is required", ErrValidation)
	case p.District == "":
		return fmt.Errorf("%w: district is required", ErrValidation)
	case p.PropertyType == "":
		return fmt.Errorf("%w: property_type is required", ErrValidation)
	case p.Status != "" && !p.Status.Valid():
		return fmt.Errorf("%w: invalid status %q", ErrValidation, p.Status)
	case p.Options.Direction != "":
		if _, ok := models.ParseDirection(string(p.Options.Direction)); !ok {
			return fmt.Errorf("%w: invalid direction %q", ErrValidation, p.Options.Direction)
		}
	}
	if err := p.NormalizePricing(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// GetPropertyByID retrieves a property by ID
func (gdb *GormDB) GetPropertyByID(ctx context.Context, id string) (*models.Property, error) {
	var property models.Property
	err := gdb.db.WithContext(ctx).Where("id = ?", id).First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// GetPropertyBySlug retrieves a property by slug
func (gdb *GormDB) GetPropertyBySlug(ctx context.Context, slug string) (*models.Property, error) {
	var property models.Property
	err := gdb.db.WithContext(ctx).Where("slug = ?", slug).First(&property).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPropertyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// ViewPropertyBySlug increments the view counter and returns the updated row
func (gdb *GormDB) ViewPropertyBySlug(ctx context.Context, slug string) (*models.Property, error) {
	result := gdb.db.WithContext(ctx).Model(&models.Property{}).
		Where("slug = ?", slug).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to increment view count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrPropertyNotFound
	}
	return gdb.GetPropertyBySlug(ctx, slug)
}

// ListProperties returns every listing regardless of status, newest first
func (gdb *GormDB) ListProperties(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	err := gdb.db.WithContext(ctx).Order("created_at DESC").Find(&properties).Error
	return properties, err
}

// UpdateProperty loads the listing, applies fn and saves the result after
// validation. It returns the row as it was before the update and after it.
func (gdb *GormDB) UpdateProperty(ctx context.Context, id string, fn func(p *models.Property) error) (before models.Property, after *models.Property, err error) {
	err = gdb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Property
		if err := tx.Where("id = ?", id).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPropertyNotFound
			}
			return err
		}
		before = current.Clone()

		if err := fn(&current); err != nil {
			return err
		}
		current.ID = before.ID
		current.CreatedAt = before.CreatedAt
		if current.Slug == "" {
			current.Slug = before.Slug
		}
		if err := validateProperty(&current); err != nil {
			return err
		}
		if err := tx.Save(&current).Error; err != nil {
			return fmt.Errorf("failed to update property: %w", err)
		}
		after = &current
		return nil
	})
	return before, after, err
}

// DeleteProperty removes a listing with its inquiries and records a delete log
func (gdb *GormDB) DeleteProperty(ctx context.Context, id string) (*models.Property, error) {
	var deleted models.Property
	err := gdb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&deleted).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPropertyNotFound
			}
			return err
		}

		if err := tx.Create(&models.DeleteLog{
			EntityType: models.EntityProperty,
			EntityID:   deleted.ID,
			Title:      deleted.Title,
			Reason:     models.DeleteReasonManual,
		}).Error; err != nil {
			return fmt.Errorf("failed to create delete log: %w", err)
		}

		// mysql and postgres cascade through the foreign key; sqlite only
		// when the pragma is on, so inquiries are removed explicitly.
		if err := tx.Where("property_id = ?", deleted.ID).Delete(&models.Inquiry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&deleted).Error
	})
	if err != nil {
		return nil, err
	}
	return &deleted, nil
}

// CountProperties returns the number of listings per status
func (gdb *GormDB) CountProperties(ctx context.Context) (map[models.PropertyStatus]int64, error) {
	var rows []struct {
		Status models.PropertyStatus
		Count  int64
	}
	if err := gdb.db.WithContext(ctx).Model(&models.Property{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[models.PropertyStatus]int64{
		models.PropertyStatusActive: 0,
		models.PropertyStatusSold:   0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// GetPropertiesByIDs loads listings and returns them in the order of ids,
// skipping ids that no longer exist.
func (gdb *GormDB) GetPropertiesByIDs(ctx context.Context, ids []string) ([]models.Property, error) {
	properties := []models.Property{}
	if len(ids) == 0 {
		return properties, nil
	}

	var rows []models.Property
	if err := gdb.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]models.Property, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			properties = append(properties, p)
		}
	}
	return properties, nil
}
