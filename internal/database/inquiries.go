package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"burim-estate/internal/models"

	"gorm.io/gorm"
)

// CreateInquiry stores a customer inquiry for an existing listing
func (gdb *GormDB) CreateInquiry(ctx context.Context, in *models.Inquiry) error {
	in.PropertyID = strings.TrimSpace(in.PropertyID)
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)

	if in.PropertyID == "" || in.Name == "" || in.Phone == "" || in.Message == "" {
		return fmt.Errorf("%w: property_id, name, phone and message are required", ErrValidation)
	}

	if _, err := gdb.GetPropertyByID(ctx, in.PropertyID); err != nil {
		return err
	}

	if err := gdb.db.WithContext(ctx).Create(in).Error; err != nil {
		return fmt.Errorf("failed to create inquiry: %w", err)
	}
	return nil
}

// ListInquiries returns all inquiries with their listing, newest first
func (gdb *GormDB) ListInquiries(ctx context.Context) ([]models.Inquiry, error) {
	var inquiries []models.Inquiry
	err := gdb.db.WithContext(ctx).
		Preload("Property").
		Order("created_at DESC").
		Find(&inquiries).Error
	return inquiries, err
}

// DeleteInquiry removes an inquiry and records a delete log
func (gdb *GormDB) DeleteInquiry(ctx context.Context, id string) error {
	return gdb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inquiry models.Inquiry
		if err := tx.Where("id = ?", id).First(&inquiry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInquiryNotFound
			}
			return err
		}

		if err := tx.Create(&models.DeleteLog{
			EntityType: models.EntityInquiry,
			EntityID:   inquiry.ID,
			Title:      inquiry.Name,
			Reason:     models.DeleteReasonManual,
		}).Error; err != nil {
			return fmt.Errorf("failed to create delete log: %w", err)
		}

		return tx.Delete(&inquiry).Error
	})
}

// CountInquiries returns the total number of inquiries
func (gdb *GormDB) CountInquiries(ctx context.Context) (int64, error) {
	var count int64
	err := gdb.db.WithContext(ctx).Model(&models.Inquiry{}).Count(&count).Error
	return count, err
}
