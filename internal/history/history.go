package history

import (
	"context"
	"fmt"
	"time"

	"burim-estate/internal/models"

	"gorm.io/gorm"
)

// Service records and reads property change history
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// NewService creates a new history service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// DetectChanges compares two states of the same listing
func DetectChanges(before, after *models.Property, at time.Time) []models.PropertyChange {
	changes := []models.PropertyChange{}

	add := func(changeType, oldVal, newVal string, magnitude *float64) {
		changes = append(changes, models.PropertyChange{
			PropertyID:      after.ID,
			ChangeType:      changeType,
			OldValue:        oldVal,
			NewValue:        newVal,
			ChangeMagnitude: magnitude,
			DetectedAt:      at,
		})
	}

	// Transaction type change
	if before.TransactionType != after.TransactionType {
		add(models.ChangeTypeTransaction, string(before.TransactionType), string(after.TransactionType), nil)
	}

	// Price changes
	if !int64PtrEqual(before.SalePrice, after.SalePrice) {
		add(models.ChangeTypeSalePrice, formatPrice(before.SalePrice), formatPrice(after.SalePrice), priceDelta(before.SalePrice, after.SalePrice))
	}
	if !int64PtrEqual(before.Deposit, after.Deposit) {
		add(models.ChangeTypeDeposit, formatPrice(before.Deposit), formatPrice(after.Deposit), priceDelta(before.Deposit, after.Deposit))
	}
	if !int64PtrEqual(before.Rent, after.Rent) {
		add(models.ChangeTypeRent, formatPrice(before.Rent), formatPrice(after.Rent), priceDelta(before.Rent, after.Rent))
	}

	// Status change
	if before.Status != after.Status {
		add(models.ChangeTypeStatus, string(before.Status), string(after.Status), nil)
	}

	// Featured flag
	if before.IsFeatured != after.IsFeatured {
		add(models.ChangeTypeFeatured, fmt.Sprintf("%t", before.IsFeatured), fmt.Sprintf("%t", after.IsFeatured), nil)
	}

	return changes
}

// RecordNew stores the creation entry of a listing
func (s *Service) RecordNew(ctx context.Context, p *models.Property) error {
	change := models.PropertyChange{
		PropertyID: p.ID,
		ChangeType: models.ChangeTypeNew,
		NewValue:   p.PriceLabel(),
		DetectedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&change).Error; err != nil {
		return fmt.Errorf("failed to record new property %s: %w", p.ID, err)
	}
	return nil
}

// RecordChanges detects and saves the changes of an admin edit
func (s *Service) RecordChanges(ctx context.Context, before, after *models.Property) ([]models.PropertyChange, error) {
	changes := DetectChanges(before, after, s.now())
	if len(changes) == 0 {
		return changes, nil
	}

	if err := s.db.WithContext(ctx).Create(&changes).Error; err != nil {
		return nil, fmt.Errorf("failed to save changes for property %s: %w", after.ID, err)
	}
	return changes, nil
}

// GetPropertyHistory retrieves change history for a property, newest first
func (s *Service) GetPropertyHistory(ctx context.Context, propertyID string, limit int) ([]models.PropertyChange, error) {
	var changes []models.PropertyChange
	query := s.db.WithContext(ctx).Where("property_id = ?", propertyID).Order("detected_at DESC, id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&changes).Error; err != nil {
		return nil, err
	}

	return changes, nil
}

// GetRecentChanges retrieves recent property changes
func (s *Service) GetRecentChanges(ctx context.Context, limit int) ([]models.PropertyChange, error) {
	var changes []models.PropertyChange
	query := s.db.WithContext(ctx).Order("detected_at DESC, id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&changes).Error; err != nil {
		return nil, err
	}

	return changes, nil
}

// Helper functions
func int64PtrEqual(a, b *int64) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

func formatPrice(v *int64) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%d", *v)
}

func priceDelta(before, after *int64) *float64 {
	if before == nil || after == nil {
		return nil
	}
	d := float64(*after - *before)
	return &d
}
