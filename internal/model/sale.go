package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const SaleStatusCompleted = "completed"

// Sale is one immutable line of the sales ledger. TotalAmount is always
// derived server-side as quantity * unit price; rows are never updated
// or deleted once written.
type Sale struct {
	BaseModel
	MedicineID uuid.UUID `gorm:"type:uuid;not null;index" json:"medicine_id" validate:"uuid_required"`
	Medicine   Medicine  `json:"medicine" validate:"-"`

	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer   *Customer  `json:"customer,omitempty" validate:"-"`

	Quantity    int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price" validate:"dec_gt0"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	Status      string          `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`

	CreatedByUserID *uuid.UUID `gorm:"type:uuid;index" json:"created_by_user_id,omitempty"`
	CreatedByUser   *User      `gorm:"foreignKey:CreatedByUserID" json:"created_by_user,omitempty"`
}
