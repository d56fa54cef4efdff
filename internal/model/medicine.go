package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Medicine is the catalog entry. Stock is the single contended field:
// every mutation of it goes through the conditional update in the
// medicine repository so it can never end up below zero.
type Medicine struct {
	BaseModel
	Name         string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Manufacturer string          `gorm:"type:varchar(255)" json:"manufacturer" validate:"required"`
	Category     string          `gorm:"type:varchar(100)" json:"category" validate:"required"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price" validate:"dec_gte0"`
	Stock        int             `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
	ExpiryDate   time.Time       `gorm:"type:date;not null" json:"expiry_date" validate:"required"`

	// Barcode is 13 ASCII digits, generated at catalog-entry time when the
	// client does not supply one. Unique when present.
	Barcode *string `gorm:"type:varchar(13);uniqueIndex" json:"barcode,omitempty"`

	// User tracking
	CreatedByUserID *uuid.UUID `gorm:"type:uuid;index" json:"created_by_user_id,omitempty"`
	UpdatedByUserID *uuid.UUID `gorm:"type:uuid" json:"updated_by_user_id,omitempty"`
	CreatedByUser   *User      `gorm:"foreignKey:CreatedByUserID" json:"created_by_user,omitempty"`
	UpdatedByUser   *User      `gorm:"foreignKey:UpdatedByUserID" json:"updated_by_user,omitempty"`

	Sales []Sale `json:"sales,omitempty"`
}

// IsExpiringWithin reports whether the medicine expires strictly before
// now + days. The dashboard uses a 5 day window, the inventory report 90.
func (m *Medicine) IsExpiringWithin(now time.Time, days int) bool {
	cutoff := now.AddDate(0, 0, days)
	return m.ExpiryDate.Before(cutoff)
}

// IsLowStock reports whether stock sits strictly below the threshold.
// Stock equal to the threshold is not flagged.
func (m *Medicine) IsLowStock(threshold int) bool {
	return m.Stock < threshold
}
