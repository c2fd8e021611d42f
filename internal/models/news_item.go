package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewsItem is a market report produced by the ingestion pipeline
type NewsItem struct {
	ID   string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Slug string `gorm:"type:varchar(191);not null;uniqueIndex" json:"slug"`

	// Original feed entry
	Title   string `gorm:"type:text;not null" json:"title"`
	Content string `gorm:"type:text" json:"content"`

	// Generated report
	AITitle   string `gorm:"column:ai_title;type:text" json:"ai_title"`
	AIContent string `gorm:"column:ai_content;type:text" json:"ai_content"`

	SourceName string `gorm:"type:varchar(255)" json:"source_name"`
	SourceURL  string `gorm:"type:varchar(500);index" json:"source_url"`

	Category       NewsCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	Grade          NewsGrade    `gorm:"type:varchar(10)" json:"grade,omitempty"`
	RelevanceScore int          `gorm:"not null;default:5" json:"relevance_score"`

	Status      NewsStatus `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (NewsItem) TableName() string {
	return "news"
}

// BeforeCreate assigns the id and default status
func (n *NewsItem) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Status == "" {
		n.Status = NewsStatusDraft
	}
	return nil
}

// NewsStatus is the publication state
type NewsStatus string

const (
	NewsStatusDraft     NewsStatus = "DRAFT"
	NewsStatusPublished NewsStatus = "PUBLISHED"
)

// Valid reports whether s is a known status
func (s NewsStatus) Valid() bool {
	return s == NewsStatusDraft || s == NewsStatusPublished
}

// NewsCategory is the locality tag
type NewsCategory string

const (
	NewsCategoryLocal    NewsCategory = "LOCAL"
	NewsCategoryNational NewsCategory = "NATIONAL"
)

// NewsGrade is the relevance class assigned during generation
type NewsGrade string

const (
	NewsGradeStrong NewsGrade = "STRONG"
	NewsGradeWeak   NewsGrade = "WEAK"
)

// Publish moves a draft to published, stamping the first publish time
func (n *NewsItem) Publish(now time.Time) {
	n.Status = NewsStatusPublished
	if n.PublishedAt == nil {
		n.PublishedAt = &now
	}
}
