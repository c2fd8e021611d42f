package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inquiry is a customer contact request about a listing
type Inquiry struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PropertyID string    `gorm:"type:varchar(36);not null;index" json:"property_id"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	Phone      string    `gorm:"type:varchar(30);not null" json:"phone"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`

	Property *Property `gorm:"foreignKey:PropertyID;references:ID;constraint:OnDelete:CASCADE" json:"property,omitempty"`
}

// TableName specifies the table name
func (Inquiry) TableName() string {
	return "inquiries"
}

// BeforeCreate assigns the id
func (i *Inquiry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
