package models

import "time"

// PropertyChange represents a change detected when an admin edits a listing
type PropertyChange struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID      string    `gorm:"type:varchar(36);not null;index" json:"property_id"`
	ChangeType      string    `gorm:"type:varchar(50);not null" json:"change_type"` // sale_price_changed, status_changed, etc.
	OldValue        string    `gorm:"type:text" json:"old_value,omitempty"`
	NewValue        string    `gorm:"type:text" json:"new_value,omitempty"`
	ChangeMagnitude *float64  `json:"change_magnitude,omitempty"` // For numerical changes
	DetectedAt      time.Time `gorm:"not null;autoCreateTime;index" json:"detected_at"`
}

// TableName specifies the table name
func (PropertyChange) TableName() string {
	return "property_changes"
}

// ChangeType constants
const (
	ChangeTypeDeposit     = "deposit_changed"
	ChangeTypeRent        = "rent_changed"
	ChangeTypeSalePrice   = "sale_price_changed"
	ChangeTypeTransaction = "transaction_type_changed"
	ChangeTypeStatus      = "status_changed"
	ChangeTypeFeatured    = "featured_changed"
	ChangeTypeNew         = "new_property"
)
