package model

// Vendor is a non-medicine service provider (equipment, logistics).
// Kept separate from suppliers upstream; preserved as its own directory.
type Vendor struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	ServiceType string `gorm:"type:varchar(100)" json:"service_type"`
	Email       string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	PhoneNumber string `gorm:"type:varchar(20)" json:"phone_number"`
	Address     string `gorm:"type:text" json:"address"`
}
