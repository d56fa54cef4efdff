package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseReceived  PurchaseStatus = "received"
	PurchaseCancelled PurchaseStatus = "cancelled"
)

var ErrInvalidTransition = errors.New("invalid purchase status transition")

// Purchase is a supplier order. Stock only moves on status transitions:
// pending -> received adds the ordered quantity, cancelling a received
// order takes it back out. Cancelled is terminal.
type Purchase struct {
	BaseModel
	MedicineID uuid.UUID `gorm:"type:uuid;not null;index" json:"medicine_id" validate:"uuid_required"`
	Medicine   Medicine  `json:"medicine" validate:"-"`

	SupplierID uuid.UUID `gorm:"type:uuid;not null;index" json:"supplier_id" validate:"uuid_required"`
	Supplier   Supplier  `json:"supplier" validate:"-"`

	Quantity      int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price" validate:"dec_gt0"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	InvoiceNumber string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoice_number"`
	Date          time.Time       `gorm:"type:date;not null;index" json:"date"`
	Status        PurchaseStatus  `gorm:"type:varchar(20);not null;default:'pending'" json:"status" validate:"omitempty,oneof=pending received cancelled"`
}

// TransitionDelta validates a status change and returns the signed stock
// delta it implies for the referenced medicine.
func (p *Purchase) TransitionDelta(next PurchaseStatus) (int, error) {
	switch {
	case p.Status == PurchasePending && next == PurchaseReceived:
		return p.Quantity, nil
	case p.Status == PurchasePending && next == PurchaseCancelled:
		return 0, nil
	case p.Status == PurchaseReceived && next == PurchaseCancelled:
		return -p.Quantity, nil
	default:
		return 0, ErrInvalidTransition
	}
}
