package service

import (
	"fmt"
	"time"

	"go-pharmacy-pos/internal/model"
	"go-pharmacy-pos/internal/repository"
	"go-pharmacy-pos/pkg/codegen"
	"go-pharmacy-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RecordPurchaseRequest struct {
	MedicineID    uuid.UUID            `json:"medicine_id" validate:"uuid_required"`
	SupplierID    uuid.UUID            `json:"supplier_id" validate:"uuid_required"`
	Quantity      int                  `json:"quantity" validate:"required,gt=0"`
	UnitPrice     decimal.Decimal      `json:"unit_price" validate:"dec_gt0"`
	InvoiceNumber string               `json:"invoice_number"`
	Date          *string              `json:"date,omitempty"` // Format: YYYY-MM-DD
	Status        model.PurchaseStatus `json:"status" validate:"omitempty,oneof=pending received cancelled"`
}

type PurchaseService interface {
	RecordPurchase(req *RecordPurchaseRequest, userID string) (*model.Purchase, error)
	UpdateStatus(id uuid.UUID, next model.PurchaseStatus, userID string) (*model.Purchase, error)
	GetAllPurchases() ([]model.Purchase, error)
	GetPurchaseByID(id uuid.UUID) (*model.Purchase, error)
	GetPurchasesByStatus(status model.PurchaseStatus) ([]model.Purchase, error)
	GetPurchasesByDateRange(startDate, endDate time.Time) ([]model.Purchase, error)
}

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
}

func NewPurchaseService(purchaseRepo repository.PurchaseRepository) PurchaseService {
	return &purchaseService{purchaseRepo: purchaseRepo}
}

// RecordPurchase creates the order. Orders default to pending; stock
// only moves when the order is (or arrives already) received, and that
// delta rides in the same transaction as the insert.
func (s *purchaseService) RecordPurchase(req *RecordPurchaseRequest, userID string) (*model.Purchase, error) {
	// 1. Validate input
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Parse order date, default today
	date := time.Now()
	if req.Date != nil && *req.Date != "" {
		parsed, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date format, use YYYY-MM-DD")
		}
		date = parsed
	}

	// 3. Default status and invoice number
	status := req.Status
	if status == "" {
		status = model.PurchasePending
	}
	invoiceNumber := req.InvoiceNumber
	if invoiceNumber == "" {
		invoiceNumber = codegen.InvoiceNumber(time.Now())
	}

	// 4. Build with derived total
	purchase := &model.Purchase{
		MedicineID:    req.MedicineID,
		SupplierID:    req.SupplierID,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		TotalAmount:   req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		InvoiceNumber: invoiceNumber,
		Date:          date,
		Status:        status,
	}
	purchase.CreatedBy = userID
	purchase.UpdatedBy = userID

	// 5. Save (atomic with the stock increment when already received)
	if err := s.purchaseRepo.Create(purchase); err != nil {
		return nil, err
	}

	return purchase, nil
}

// UpdateStatus applies a transition. pending->received adds stock,
// received->cancelled takes it back, pending->cancelled leaves stock
// alone; anything else is rejected.
func (s *purchaseService) UpdateStatus(id uuid.UUID, next model.PurchaseStatus, userID string) (*model.Purchase, error) {
	switch next {
	case model.PurchasePending, model.PurchaseReceived, model.PurchaseCancelled:
	default:
		return nil, fmt.Errorf("unknown purchase status: %s", next)
	}
	return s.purchaseRepo.UpdateStatus(id, next, userID)
}

func (s *purchaseService) GetAllPurchases() ([]model.Purchase, error) {
	return s.purchaseRepo.FindAll()
}

func (s *purchaseService) GetPurchaseByID(id uuid.UUID) (*model.Purchase, error) {
	return s.purchaseRepo.FindByID(id)
}

func (s *purchaseService) GetPurchasesByStatus(status model.PurchaseStatus) ([]model.Purchase, error) {
	return s.purchaseRepo.FindByStatus(status)
}

func (s *purchaseService) GetPurchasesByDateRange(startDate, endDate time.Time) ([]model.Purchase, error) {
	return s.purchaseRepo.FindByDateRange(startDate, endDate)
}
