package models

import "time"

// DeleteLog represents a record of a physically deleted row
type DeleteLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EntityType string    `gorm:"type:varchar(20);not null;index" json:"entity_type"`
	EntityID   string    `gorm:"type:varchar(36);not null;index" json:"entity_id"`
	Title      string    `gorm:"type:text" json:"title"`
	SourceURL  string    `gorm:"type:text" json:"source_url,omitempty"`
	DeletedAt  time.Time `gorm:"not null;autoCreateTime;index" json:"deleted_at"`
	Reason     string    `gorm:"type:varchar(50);not null" json:"reason"`
}

// TableName specifies the table name
func (DeleteLog) TableName() string {
	return "delete_logs"
}

// Entity types
const (
	EntityProperty = "property"
	EntityNews     = "news"
	EntityInquiry  = "inquiry"
)

// DeleteReason constants
const (
	DeleteReasonManual     = "manual_deletion"
	DeleteReasonStaleDraft = "stale_draft"
)
