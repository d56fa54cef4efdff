package service

import (
	"strings"
	"testing"
	"time"

	"go-pharmacy-pos/internal/model"
	"go-pharmacy-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePurchaseRepo mirrors the real repository's contract: status
// transitions and the stock deltas they imply are applied together or
// not at all.
type fakePurchaseRepo struct {
	stock     map[uuid.UUID]int
	purchases map[uuid.UUID]*model.Purchase
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{
		stock:     map[uuid.UUID]int{},
		purchases: map[uuid.UUID]*model.Purchase{},
	}
}

func (f *fakePurchaseRepo) Create(purchase *model.Purchase) error {
	if purchase.Status == model.PurchaseReceived {
		f.stock[purchase.MedicineID] += purchase.Quantity
	}
	purchase.ID = uuid.New()
	f.purchases[purchase.ID] = purchase
	return nil
}

func (f *fakePurchaseRepo) UpdateStatus(id uuid.UUID, next model.PurchaseStatus, updatedBy string) (*model.Purchase, error) {
	purchase, ok := f.purchases[id]
	if !ok {
		return nil, repository.ErrPurchaseNotFound
	}

	delta, err := purchase.TransitionDelta(next)
	if err != nil {
		return nil, err
	}
	if f.stock[purchase.MedicineID]+delta < 0 {
		return nil, repository.ErrInsufficientStock
	}

	f.stock[purchase.MedicineID] += delta
	purchase.Status = next
	purchase.UpdatedBy = updatedBy
	return purchase, nil
}

func (f *fakePurchaseRepo) FindAll() ([]model.Purchase, error) {
	out := make([]model.Purchase, 0, len(f.purchases))
	for _, p := range f.purchases {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePurchaseRepo) FindByID(id uuid.UUID) (*model.Purchase, error) {
	p, ok := f.purchases[id]
	if !ok {
		return nil, repository.ErrPurchaseNotFound
	}
	return p, nil
}

func (f *fakePurchaseRepo) FindByStatus(status model.PurchaseStatus) ([]model.Purchase, error) {
	var out []model.Purchase
	for _, p := range f.purchases {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePurchaseRepo) FindByDateRange(startDate, endDate time.Time) ([]model.Purchase, error) {
	var out []model.Purchase
	for _, p := range f.purchases {
		if !p.Date.Before(startDate) && !p.Date.After(endDate) {
			out = append(out, *p)
		}
	}
	return out, nil
}

var _ repository.PurchaseRepository = (*fakePurchaseRepo)(nil)

func validPurchaseRequest() *RecordPurchaseRequest {
	return &RecordPurchaseRequest{
		MedicineID: uuid.New(),
		SupplierID: uuid.New(),
		Quantity:   40,
		UnitPrice:  decimal.RequireFromString("2.50"),
	}
}

func TestRecordPurchaseDefaults(t *testing.T) {
	repo := newFakePurchaseRepo()
	svc := NewPurchaseService(repo)

	purchase, err := svc.RecordPurchase(validPurchaseRequest(), "admin-1")
	require.NoError(t, err)

	assert.Equal(t, model.PurchasePending, purchase.Status)
	assert.True(t, purchase.TotalAmount.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, strings.HasPrefix(purchase.InvoiceNumber, "INV-"), "got %s", purchase.InvoiceNumber)
	assert.False(t, purchase.Date.IsZero())

	// Pending orders never move stock
	assert.Zero(t, repo.stock[purchase.MedicineID])
}

func TestRecordPurchaseReceivedCreditsStockImmediately(t *testing.T) {
	repo := newFakePurchaseRepo()
	svc := NewPurchaseService(repo)

	req := validPurchaseRequest()
	req.Status = model.PurchaseReceived

	purchase, err := svc.RecordPurchase(req, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, 40, repo.stock[purchase.MedicineID])
}

func TestRecordPurchaseKeepsExplicitInvoiceAndDate(t *testing.T) {
	repo := newFakePurchaseRepo()
	svc := NewPurchaseService(repo)

	date := "2026-08-15"
	req := validPurchaseRequest()
	req.InvoiceNumber = "INV-202608-7777"
	req.Date = &date

	purchase, err := svc.RecordPurchase(req, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "INV-202608-7777", purchase.InvoiceNumber)
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), purchase.Date)
}

func TestRecordPurchaseRejectsBadDate(t *testing.T) {
	svc := NewPurchaseService(newFakePurchaseRepo())

	badDate := "15/08/2026"
	req := validPurchaseRequest()
	req.Date = &badDate

	_, err := svc.RecordPurchase(req, "admin-1")
	assert.Error(t, err)
}

func TestUpdateStatusReceiveThenCancelRoundTripsStock(t *testing.T) {
	repo := newFakePurchaseRepo()
	svc := NewPurchaseService(repo)

	purchase, err := svc.RecordPurchase(validPurchaseRequest(), "admin-1")
	require.NoError(t, err)

	received, err := svc.UpdateStatus(purchase.ID, model.PurchaseReceived, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseReceived, received.Status)
	assert.Equal(t, 40, repo.stock[purchase.MedicineID])

	cancelled, err := svc.UpdateStatus(purchase.ID, model.PurchaseCancelled, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, model.PurchaseCancelled, cancelled.Status)
	assert.Zero(t, repo.stock[purchase.MedicineID])
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	repo := newFakePurchaseRepo()
	svc := NewPurchaseService(repo)

	purchase, err := svc.RecordPurchase(validPurchaseRequest(), "admin-1")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(purchase.ID, model.PurchasePending, "admin-1")
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = svc.UpdateStatus(purchase.ID, "delivered", "admin-1")
	assert.Error(t, err)
}

func TestUpdateStatusCancelBlockedWhenStockAlreadySold(t *testing.T) {
	repo := newFakePurchaseRepo()
	svc := NewPurchaseService(repo)

	purchase, err := svc.RecordPurchase(validPurchaseRequest(), "admin-1")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(purchase.ID, model.PurchaseReceived, "admin-1")
	require.NoError(t, err)

	// Part of the received stock has since been sold
	repo.stock[purchase.MedicineID] = 10

	_, err = svc.UpdateStatus(purchase.ID, model.PurchaseCancelled, "admin-1")
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	// The failed cancel must leave the order received
	assert.Equal(t, model.PurchaseReceived, repo.purchases[purchase.ID].Status)
}

func TestUpdateStatusUnknownPurchase(t *testing.T) {
	svc := NewPurchaseService(newFakePurchaseRepo())

	_, err := svc.UpdateStatus(uuid.New(), model.PurchaseReceived, "admin-1")
	assert.ErrorIs(t, err, repository.ErrPurchaseNotFound)
}
