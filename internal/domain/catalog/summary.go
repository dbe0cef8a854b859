package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Summary style and length tags. Generated summaries always carry one of
// each; the preview webhook validates against the same sets.
const (
	SummaryStyleConcise    = "concise"
	SummaryStyleNarrative  = "narrative"
	SummaryStyleAnalytical = "analytical"

	SummaryLengthShort  = "short"
	SummaryLengthMedium = "medium"
	SummaryLengthLong   = "long"
)

func ValidSummaryStyle(s string) bool {
	switch s {
	case SummaryStyleConcise, SummaryStyleNarrative, SummaryStyleAnalytical:
		return true
	default:
		return false
	}
}

func ValidSummaryLength(s string) bool {
	switch s {
	case SummaryLengthShort, SummaryLengthMedium, SummaryLengthLong:
		return true
	default:
		return false
	}
}

type Summary struct {
	ID     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookID uuid.UUID `gorm:"type:uuid;index;not null;column:book_id" json:"book_id"`
	Style  string    `gorm:"not null;column:style" json:"style"`
	Length string    `gorm:"not null;column:length" json:"length"`
	Text   string    `gorm:"column:text" json:"text"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Summary) TableName() string { return "summary" }
