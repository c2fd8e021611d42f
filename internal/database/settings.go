package database

import (
	"context"
	"errors"
	"fmt"

	"burim-estate/internal/config"
	"burim-estate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetSiteSettings returns the singleton settings row, creating it with the
// configured defaults on first read.
func (gdb *GormDB) GetSiteSettings(ctx context.Context, defaults config.SiteConfig) (*models.SiteSettings, error) {
	var settings models.SiteSettings
	err := gdb.db.WithContext(ctx).Where("id = ?", models.SiteSettingsID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	settings = models.SiteSettings{
		ID:         models.SiteSettingsID,
		Phone:      defaults.Phone,
		Address:    defaults.Address,
		OfficeName: defaults.OfficeName,
	}
	// DoNothing keeps a row written by a concurrent first read
	if err := gdb.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to create site settings: %w", err)
	}
	if err := gdb.db.WithContext(ctx).Where("id = ?", models.SiteSettingsID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// SettingsPatch holds the editable settings; nil fields are left unchanged
type SettingsPatch struct {
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	OfficeName *string `json:"office_name"`
}

// UpdateSiteSettings upserts the singleton row, changing only provided fields
func (gdb *GormDB) UpdateSiteSettings(ctx context.Context, defaults config.SiteConfig, patch SettingsPatch) (*models.SiteSettings, error) {
	settings, err := gdb.GetSiteSettings(ctx, defaults)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.Address != nil {
		updates["address"] = *patch.Address
	}
	if patch.OfficeName != nil {
		updates["office_name"] = *patch.OfficeName
	}
	if len(updates) == 0 {
		return settings, nil
	}

	if err := gdb.db.WithContext(ctx).Model(settings).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update site settings: %w", err)
	}
	return gdb.GetSiteSettings(ctx, defaults)
}
