package leads

// PostalCode is one row of the German postal-code reference table. The
// discovery workflow walks this table; coverage is the share of codes that
// already appear on at least one non-duplicate dentist lead.
type PostalCode struct {
	Code string `gorm:"primaryKey;column:code" json:"code"`
	City string `gorm:"column:city" json:"city,omitempty"`
}

func (PostalCode) TableName() string { return "postal_code" }
