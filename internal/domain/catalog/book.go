package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Book lifecycle status tags. The set is closed; the enrichment workflow and
// the dashboard both key off these exact strings.
const (
	BookStatusPending    = "pending"
	BookStatusProcessing = "processing"
	BookStatusCompleted  = "completed"
	BookStatusFailed     = "failed"
)

func ValidBookStatus(s string) bool {
	switch s {
	case BookStatusPending, BookStatusProcessing, BookStatusCompleted, BookStatusFailed:
		return true
	default:
		return false
	}
}

type Book struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title  string    `gorm:"not null;column:title" json:"title"`
	Author string    `gorm:"not null;column:author" json:"author"`
	Status string    `gorm:"not null;default:'pending';column:status" json:"status"`

	// Enrichment fields, populated by the external workflow.
	Description string `gorm:"column:description" json:"description,omitempty"`
	Genre       string `gorm:"column:genre" json:"genre,omitempty"`
	ISBN        string `gorm:"column:isbn" json:"isbn,omitempty"`
	PageCount   int    `gorm:"column:page_count" json:"page_count,omitempty"`

	CoverBucketKey string `gorm:"column:cover_bucket_key" json:"cover_bucket_key,omitempty"`
	CoverURL       string `gorm:"column:cover_url" json:"cover_url,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Book) TableName() string { return "book" }
