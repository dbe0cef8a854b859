package leads

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DentistLead is one practice discovered by the German dentist campaign.
// Rows are written by the external discovery/enrichment workflows; the
// dashboard reads them and only ever flips the duplicate flag.
type DentistLead struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PracticeName string   `gorm:"not null;column:practice_name" json:"practice_name"`
	ContactName  string   `gorm:"column:contact_name" json:"contact_name,omitempty"`
	Email        string   `gorm:"column:email" json:"email,omitempty"`
	Website      string   `gorm:"column:website" json:"website,omitempty"`
	Phone        string   `gorm:"column:phone" json:"phone,omitempty"`
	City         string   `gorm:"column:city" json:"city,omitempty"`
	PostalCode   string   `gorm:"index;column:postal_code" json:"postal_code,omitempty"`

	Duplicate        bool   `gorm:"not null;default:false;index;column:duplicate" json:"duplicate"`
	FirstContactSent bool   `gorm:"not null;default:false;column:first_contact_sent" json:"first_contact_sent"`
	Exported         bool   `gorm:"not null;default:false;column:exported" json:"exported"`
	EmailStatus      string `gorm:"column:email_status" json:"email_status,omitempty"`
	Analysis         string `gorm:"column:analysis" json:"analysis,omitempty"`

	EnrichmentData datatypes.JSON `gorm:"column:enrichment_data" json:"enrichment_data,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (DentistLead) TableName() string { return "dentist_lead" }
