package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Suggestion is a canned chat prompt offered for a book. Usage analytics
// match chat-log messages against suggestion texts to split canned from
// custom traffic.
type Suggestion struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookID uuid.UUID `gorm:"type:uuid;index;not null;column:book_id" json:"book_id"`
	Text   string    `gorm:"not null;column:text" json:"text"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Suggestion) TableName() string { return "suggestion" }
