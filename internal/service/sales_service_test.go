package service

import (
	"testing"

	"go-pharmacy-pos/internal/model"
	"go-pharmacy-pos/internal/repository"
	"go-pharmacy-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSalesService(saleRepo *fakeSaleRepo) SalesService {
	hub := ws.NewHub()
	go hub.Run()
	return NewSalesService(saleRepo, &fakeMedicineRepo{}, hub)
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRecordSaleDerivesTotalFromUnitPrice(t *testing.T) {
	repo := newTestSalesRepoWithStock(t, 100)
	svc := newTestSalesService(repo)

	medicineID := onlyStockedMedicine(repo)
	sale, err := svc.RecordSale(&RecordSaleRequest{
		MedicineID: medicineID,
		Quantity:   5,
		UnitPrice:  price("9.99"),
	}, "cashier-1", "Cashier", "cashier@example.com")

	require.NoError(t, err)
	// 5 * 9.99 must be exactly 49.95, no float drift
	assert.True(t, sale.TotalAmount.Equal(price("49.95")), "got %s", sale.TotalAmount)
	assert.Equal(t, model.SaleStatusCompleted, sale.Status)
	assert.Equal(t, 95, repo.stock[medicineID])
}

func TestRecordSaleRejectsInsufficientStock(t *testing.T) {
	repo := newTestSalesRepoWithStock(t, 3)
	svc := newTestSalesService(repo)

	medicineID := onlyStockedMedicine(repo)
	_, err := svc.RecordSale(&RecordSaleRequest{
		MedicineID: medicineID,
		Quantity:   4,
		UnitPrice:  price("10.00"),
	}, "cashier-1", "Cashier", "cashier@example.com")

	require.Error(t, err)
	assert.True(t, IsInsufficientStock(err))
	// Rejected sale must leave no trace: stock and ledger untouched
	assert.Equal(t, 3, repo.stock[medicineID])
	assert.Empty(t, repo.sales)
}

func TestRecordSaleValidatesQuantityAndPrice(t *testing.T) {
	repo := newTestSalesRepoWithStock(t, 100)
	svc := newTestSalesService(repo)
	medicineID := onlyStockedMedicine(repo)

	_, err := svc.RecordSale(&RecordSaleRequest{
		MedicineID: medicineID,
		Quantity:   0,
		UnitPrice:  price("10.00"),
	}, "u", "n", "e")
	assert.Error(t, err)

	_, err = svc.RecordSale(&RecordSaleRequest{
		MedicineID: medicineID,
		Quantity:   1,
		UnitPrice:  decimal.Zero,
	}, "u", "n", "e")
	assert.Error(t, err)

	assert.Empty(t, repo.sales)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := newTestSalesService(newFakeSaleRepo())

	_, err := svc.Checkout(&CheckoutRequest{}, "u", "n", "e")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutAllLinesCommit(t *testing.T) {
	repo := newFakeSaleRepo()
	a, b := uuid.New(), uuid.New()
	repo.stock[a] = 10
	repo.stock[b] = 10
	svc := newTestSalesService(repo)

	result, err := svc.Checkout(&CheckoutRequest{
		Lines: []RecordSaleRequest{
			{MedicineID: a, Quantity: 2, UnitPrice: price("9.99")},
			{MedicineID: b, Quantity: 1, UnitPrice: price("12.50")},
		},
	}, "cashier-1", "Cashier", "cashier@example.com")

	require.NoError(t, err)
	assert.Equal(t, CheckoutCompleted, result.Status)
	assert.Equal(t, 2, result.CommittedCount)
	assert.True(t, result.CommittedTotal.Equal(price("32.48")))
	assert.True(t, result.CartTotal.Equal(result.CommittedTotal))
	require.Len(t, result.Lines, 2)
	for _, line := range result.Lines {
		assert.Equal(t, LineCommitted, line.Status)
		assert.NotNil(t, line.SaleID)
	}
}

func TestCheckoutStopsAtFirstFailureAndReportsSplit(t *testing.T) {
	repo := newFakeSaleRepo()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	repo.stock[a] = 10
	repo.stock[b] = 1 // line will ask for 2
	repo.stock[c] = 10
	svc := newTestSalesService(repo)

	result, err := svc.Checkout(&CheckoutRequest{
		Lines: []RecordSaleRequest{
			{MedicineID: a, Quantity: 2, UnitPrice: price("9.99")},
			{MedicineID: b, Quantity: 2, UnitPrice: price("5.00")},
			{MedicineID: c, Quantity: 1, UnitPrice: price("1.00")},
		},
	}, "cashier-1", "Cashier", "cashier@example.com")

	require.NoError(t, err)
	assert.Equal(t, CheckoutPartialFailure, result.Status)
	assert.Equal(t, 1, result.CommittedCount)
	assert.True(t, result.CommittedTotal.Equal(price("19.98")))

	require.Len(t, result.Lines, 3)
	assert.Equal(t, LineCommitted, result.Lines[0].Status)
	assert.Equal(t, LineFailed, result.Lines[1].Status)
	assert.NotEmpty(t, result.Lines[1].Error)
	// Lines after the failure are never attempted
	assert.Equal(t, LineSkipped, result.Lines[2].Status)
	assert.Equal(t, 10, repo.stock[c])

	// The committed line stays committed
	assert.Equal(t, 8, repo.stock[a])
	assert.Len(t, repo.sales, 1)
}

func TestCheckoutFirstLineFailureIsFailedStatus(t *testing.T) {
	repo := newFakeSaleRepo()
	a := uuid.New()
	repo.stock[a] = 0
	svc := newTestSalesService(repo)

	result, err := svc.Checkout(&CheckoutRequest{
		Lines: []RecordSaleRequest{
			{MedicineID: a, Quantity: 1, UnitPrice: price("9.99")},
		},
	}, "cashier-1", "Cashier", "cashier@example.com")

	require.NoError(t, err)
	assert.Equal(t, CheckoutFailed, result.Status)
	assert.Equal(t, 0, result.CommittedCount)
	assert.True(t, result.CommittedTotal.IsZero())
}

func TestCheckoutMergesDuplicateMedicineLines(t *testing.T) {
	repo := newFakeSaleRepo()
	a, b := uuid.New(), uuid.New()
	repo.stock[a] = 10
	repo.stock[b] = 10
	svc := newTestSalesService(repo)

	// The same medicine scanned twice arrives as two request lines; one
	// merged sale commits, at the first line's position and price
	result, err := svc.Checkout(&CheckoutRequest{
		Lines: []RecordSaleRequest{
			{MedicineID: a, Quantity: 2, UnitPrice: price("9.99")},
			{MedicineID: b, Quantity: 1, UnitPrice: price("12.50")},
			{MedicineID: a, Quantity: 3, UnitPrice: price("9.99")},
		},
	}, "cashier-1", "Cashier", "cashier@example.com")

	require.NoError(t, err)
	assert.Equal(t, CheckoutCompleted, result.Status)
	assert.Equal(t, 2, result.CommittedCount)

	require.Len(t, result.Lines, 2)
	assert.Equal(t, a, result.Lines[0].MedicineID)
	assert.Equal(t, 5, result.Lines[0].Quantity)
	assert.Equal(t, b, result.Lines[1].MedicineID)

	// 5 * 9.99 + 12.50
	assert.True(t, result.CartTotal.Equal(price("62.45")), "got %s", result.CartTotal)
	assert.True(t, result.CommittedTotal.Equal(result.CartTotal))

	require.Len(t, repo.sales, 2)
	assert.Equal(t, 5, repo.sales[0].Quantity)
	assert.Equal(t, 5, repo.stock[a])
}

func TestCheckoutAppliesCartCustomerToLines(t *testing.T) {
	repo := newFakeSaleRepo()
	a := uuid.New()
	repo.stock[a] = 10
	customerID := uuid.New()
	svc := newTestSalesService(repo)

	_, err := svc.Checkout(&CheckoutRequest{
		CustomerID: &customerID,
		Lines: []RecordSaleRequest{
			{MedicineID: a, Quantity: 1, UnitPrice: price("9.99")},
		},
	}, "cashier-1", "Cashier", "cashier@example.com")

	require.NoError(t, err)
	require.Len(t, repo.sales, 1)
	require.NotNil(t, repo.sales[0].CustomerID)
	assert.Equal(t, customerID, *repo.sales[0].CustomerID)
}

// helpers

func newTestSalesRepoWithStock(t *testing.T, stock int) *fakeSaleRepo {
	t.Helper()
	repo := newFakeSaleRepo()
	repo.stock[uuid.New()] = stock
	return repo
}

func onlyStockedMedicine(repo *fakeSaleRepo) uuid.UUID {
	for id := range repo.stock {
		return id
	}
	return uuid.Nil
}

var _ repository.SaleRepository = (*fakeSaleRepo)(nil)
var _ repository.MedicineRepository = (*fakeMedicineRepo)(nil)
