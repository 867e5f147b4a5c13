package models

// Customer is a CRM record for a business contact.
type Customer struct {
	BaseModel

	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

// TableName pins the table name used by gorm.
func (Customer) TableName() string {
	return "customers"
}

// CustomerStats carries aggregates derived from a full customer scan.
type CustomerStats struct {
	Total            int `json:"total"`
	WithPhone        int `json:"withPhone"`
	WithNotes        int `json:"withNotes"`
	CreatedThisMonth int `json:"createdThisMonth"`
}
