package models

import "time"

// SiteSettingsID is the fixed key of the singleton settings row
const SiteSettingsID = "singleton"

// SiteSettings holds the office contact details shown on every page
type SiteSettings struct {
	ID         string    `gorm:"type:varchar(20);primaryKey" json:"id"`
	Phone      string    `gorm:"type:varchar(30)" json:"phone"`
	Address    string    `gorm:"type:text" json:"address"`
	OfficeName string    `gorm:"type:varchar(100)" json:"office_name"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (SiteSettings) TableName() string {
	return "site_settings"
}
