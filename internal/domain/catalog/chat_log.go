package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ChatLog is one user message sent in a book chat. Rows are written by the
// reader-facing app; the dashboard only reads and deletes them.
type ChatLog struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookID  uuid.UUID `gorm:"type:uuid;index;not null;column:book_id" json:"book_id"`
	Message string    `gorm:"not null;column:message" json:"message"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ChatLog) TableName() string { return "chat_log" }
