package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-pharmacy-pos/internal/model"
	"go-pharmacy-pos/internal/pos"
	"go-pharmacy-pos/internal/repository"
	"go-pharmacy-pos/internal/ws"
	"go-pharmacy-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("cart is empty")

type RecordSaleRequest struct {
	MedicineID uuid.UUID       `json:"medicine_id" validate:"uuid_required"`
	Quantity   int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice  decimal.Decimal `json:"unit_price" validate:"dec_gt0"`
	CustomerID *uuid.UUID      `json:"customer_id,omitempty"`
}

// CheckoutRequest carries the client-held cart at confirmation time.
// Line order is cart order and is preserved during commit.
type CheckoutRequest struct {
	Lines      []RecordSaleRequest `json:"lines"`
	CustomerID *uuid.UUID          `json:"customer_id,omitempty"`
}

const (
	LineCommitted = "committed"
	LineFailed    = "failed"
	LineSkipped   = "skipped"
)

// CheckoutLineResult reports what happened to one cart line. Lines
// after the first failure are never attempted and marked skipped, so
// the caller always sees the exact committed/uncommitted split.
type CheckoutLineResult struct {
	MedicineID uuid.UUID       `json:"medicine_id"`
	Quantity   int             `json:"quantity"`
	Status     string          `json:"status"`
	SaleID     *uuid.UUID      `json:"sale_id,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Error      string          `json:"error,omitempty"`
}

const (
	CheckoutCompleted      = "completed"
	CheckoutPartialFailure = "partial_failure"
	CheckoutFailed         = "failed"
)

type CheckoutResult struct {
	Status         string               `json:"status"`
	CommittedCount int                  `json:"committed_count"`
	CommittedTotal decimal.Decimal      `json:"committed_total"`
	CartTotal      decimal.Decimal      `json:"cart_total"`
	Lines          []CheckoutLineResult `json:"lines"`
}

type SalesService interface {
	RecordSale(req *RecordSaleRequest, userID, userName, userEmail string) (*model.Sale, error)
	Checkout(req *CheckoutRequest, userID, userName, userEmail string) (*CheckoutResult, error)
	GetAllSales() ([]model.Sale, error)
	GetSaleByID(id uuid.UUID) (*model.Sale, error)
}

type salesService struct {
	saleRepo     repository.SaleRepository
	medicineRepo repository.MedicineRepository
	wsHub        *ws.Hub
}

func NewSalesService(saleRepo repository.SaleRepository, medicineRepo repository.MedicineRepository, hub *ws.Hub) SalesService {
	return &salesService{
		saleRepo:     saleRepo,
		medicineRepo: medicineRepo,
		wsHub:        hub,
	}
}

// RecordSale decrements stock and appends the ledger row. The two
// steps run in one repository transaction: a sale either fully happens
// or leaves no trace, so an orphaned stock adjustment cannot occur.
func (s *salesService) RecordSale(req *RecordSaleRequest, userID, userName, userEmail string) (*model.Sale, error) {
	// 1. Validate input
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Build the immutable ledger row; total is always derived here,
	// never taken from the client
	sale := &model.Sale{
		MedicineID:  req.MedicineID,
		CustomerID:  req.CustomerID,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		TotalAmount: req.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Status:      model.SaleStatusCompleted,
	}
	sale.CreatedBy = userID
	sale.UpdatedBy = userID
	if uid, err := uuid.Parse(userID); err == nil {
		sale.CreatedByUserID = &uid
	}

	// 3. Atomic decrement + append
	if err := s.saleRepo.Record(sale); err != nil {
		return nil, err
	}

	// 4. Broadcast the stock movement
	s.broadcastSale(sale, userID, userName, userEmail)

	return sale, nil
}

// Checkout commits the cart lines strictly in cart order, one at a
// time, each awaited before the next begins. Processing stops at the
// first failing line; already-committed lines stay committed and the
// result reports the split explicitly.
func (s *salesService) Checkout(req *CheckoutRequest, userID, userName, userEmail string) (*CheckoutResult, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Reject malformed carts before touching any stock, then rebuild the
	// request through the cart type: repeated medicine lines merge into
	// one (first occurrence keeps the position and price snapshot) and
	// the cart total comes from the merged lines.
	cart := pos.NewCart()
	customerFor := make(map[uuid.UUID]*uuid.UUID)
	for i := range req.Lines {
		line := req.Lines[i]
		if line.CustomerID == nil {
			line.CustomerID = req.CustomerID
		}
		if errs := validator.ValidateStruct(&line); len(errs) > 0 {
			firstErr := errs[0]
			return nil, fmt.Errorf("Validation failed: line %d field '%s' failed on tag '%s'", i+1, firstErr.FailedField, firstErr.Tag)
		}
		cart.AddLine(pos.Line{
			MedicineID: line.MedicineID,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
		})
		if _, seen := customerFor[line.MedicineID]; !seen {
			customerFor[line.MedicineID] = line.CustomerID
		}
	}

	lines := cart.Lines()
	result := &CheckoutResult{
		Status:         CheckoutCompleted,
		CommittedTotal: decimal.Zero,
		CartTotal:      cart.Total(),
		Lines:          make([]CheckoutLineResult, 0, len(lines)),
	}

	failedAt := -1
	for i := range lines {
		line := RecordSaleRequest{
			MedicineID: lines[i].MedicineID,
			Quantity:   lines[i].Quantity,
			UnitPrice:  lines[i].UnitPrice,
			CustomerID: customerFor[lines[i].MedicineID],
		}

		sale, err := s.RecordSale(&line, userID, userName, userEmail)
		if err != nil {
			failedAt = i
			result.Lines = append(result.Lines, CheckoutLineResult{
				MedicineID: line.MedicineID,
				Quantity:   line.Quantity,
				Status:     LineFailed,
				Error:      err.Error(),
			})
			break
		}

		saleID := sale.ID
		result.CommittedCount++
		result.CommittedTotal = result.CommittedTotal.Add(sale.TotalAmount)
		result.Lines = append(result.Lines, CheckoutLineResult{
			MedicineID: line.MedicineID,
			Quantity:   line.Quantity,
			Status:     LineCommitted,
			SaleID:     &saleID,
			Total:      sale.TotalAmount,
		})
	}

	if failedAt >= 0 {
		// Remaining lines are never attempted
		for i := failedAt + 1; i < len(lines); i++ {
			result.Lines = append(result.Lines, CheckoutLineResult{
				MedicineID: lines[i].MedicineID,
				Quantity:   lines[i].Quantity,
				Status:     LineSkipped,
			})
		}
		if result.CommittedCount > 0 {
			result.Status = CheckoutPartialFailure
		} else {
			result.Status = CheckoutFailed
		}
	}

	return result, nil
}

func (s *salesService) GetAllSales() ([]model.Sale, error) {
	return s.saleRepo.FindAll()
}

func (s *salesService) GetSaleByID(id uuid.UUID) (*model.Sale, error) {
	return s.saleRepo.FindByID(id)
}

func (s *salesService) broadcastSale(sale *model.Sale, userID, userName, userEmail string) {
	go func() {
		payload := map[string]interface{}{
			"type":   "stock_update",
			"action": "sale_recorded",
			"sale": map[string]interface{}{
				"id":           sale.ID,
				"medicine_id":  sale.MedicineID,
				"quantity":     sale.Quantity,
				"total_amount": sale.TotalAmount,
			},
			"user": map[string]interface{}{
				"id":    userID,
				"name":  userName,
				"email": userEmail,
			},
			"message": fmt.Sprintf("%s sold %d units", userName, sale.Quantity),
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}

// IsInsufficientStock reports whether err is the stock rejection, an
// expected business outcome rather than an infrastructure failure.
func IsInsufficientStock(err error) bool {
	return errors.Is(err, repository.ErrInsufficientStock)
}
