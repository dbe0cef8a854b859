package leads

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AdvisorLead is one US financial advisor sourced for the advisor campaign.
type AdvisorLead struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FirmName  string    `gorm:"not null;column:firm_name" json:"firm_name"`
	FirstName string    `gorm:"column:first_name" json:"first_name,omitempty"`
	LastName  string    `gorm:"column:last_name" json:"last_name,omitempty"`
	Email     string    `gorm:"column:email" json:"email,omitempty"`
	Website   string    `gorm:"column:website" json:"website,omitempty"`
	Phone     string    `gorm:"column:phone" json:"phone,omitempty"`
	State     string    `gorm:"column:state" json:"state,omitempty"`

	Duplicate        bool   `gorm:"not null;default:false;index;column:duplicate" json:"duplicate"`
	FirstContactSent bool   `gorm:"not null;default:false;column:first_contact_sent" json:"first_contact_sent"`
	Exported         bool   `gorm:"not null;default:false;column:exported" json:"exported"`
	EmailStatus      string `gorm:"column:email_status" json:"email_status,omitempty"`
	Analysis         string `gorm:"column:analysis" json:"analysis,omitempty"`

	EnrichmentData datatypes.JSON `gorm:"column:enrichment_data" json:"enrichment_data,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (AdvisorLead) TableName() string { return "advisor_lead" }
