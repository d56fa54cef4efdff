package report

import (
	"testing"
	"time"

	"go-pharmacy-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func medicineWith(name string, stock int, expiry time.Time) model.Medicine {
	m := model.Medicine{Name: name, Stock: stock, ExpiryDate: expiry}
	m.ID = uuid.New()
	return m
}

func TestLowStockBoundary(t *testing.T) {
	expiry := time.Now().AddDate(1, 0, 0)
	medicines := []model.Medicine{
		medicineWith("at threshold", 100, expiry),
		medicineWith("just under", 99, expiry),
		medicineWith("zero", 0, expiry),
		medicineWith("plenty", 500, expiry),
	}

	flagged := LowStock(medicines, DefaultLowStockThreshold)

	require.Len(t, flagged, 2)
	assert.Equal(t, "just under", flagged[0].Name)
	assert.Equal(t, "zero", flagged[1].Name)
}

func TestExpiringWithinIsStrictlyBeforeCutoff(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	medicines := []model.Medicine{
		medicineWith("already expired", 10, now.AddDate(0, 0, -1)),
		medicineWith("inside window", 10, now.AddDate(0, 0, 3)),
		medicineWith("exactly at cutoff", 10, now.AddDate(0, 0, 5)),
		medicineWith("outside window", 10, now.AddDate(0, 0, 30)),
	}

	flagged := ExpiringWithin(medicines, now, DashboardExpiryWindowDays)

	require.Len(t, flagged, 2)
	assert.Equal(t, "already expired", flagged[0].Name)
	assert.Equal(t, "inside window", flagged[1].Name)
}

func TestDashboardAndReportWindowsDiffer(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := medicineWith("expires in 30 days", 10, now.AddDate(0, 0, 30))

	assert.Empty(t, ExpiringWithin([]model.Medicine{m}, now, DashboardExpiryWindowDays))
	assert.Len(t, ExpiringWithin([]model.Medicine{m}, now, ReportExpiryWindowDays), 1)
}

func TestExpiringBeforeIsInclusive(t *testing.T) {
	cutoff := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	medicines := []model.Medicine{
		medicineWith("on cutoff", 10, cutoff),
		medicineWith("after cutoff", 10, cutoff.Add(time.Second)),
	}

	flagged := ExpiringBefore(medicines, cutoff)

	require.Len(t, flagged, 1)
	assert.Equal(t, "on cutoff", flagged[0].Name)
}

func TestTopSellingRanksByQuantitySold(t *testing.T) {
	expiry := time.Now().AddDate(1, 0, 0)
	a := medicineWith("A", 100, expiry)
	b := medicineWith("B", 100, expiry)
	c := medicineWith("C", 100, expiry)
	medicines := []model.Medicine{a, b, c}

	sales := []model.Sale{
		{MedicineID: a.ID, Quantity: 3},
		{MedicineID: c.ID, Quantity: 10},
		{MedicineID: a.ID, Quantity: 2},
		{MedicineID: b.ID, Quantity: 7},
	}

	top := TopSelling(medicines, sales, 2)

	require.Len(t, top, 2)
	assert.Equal(t, "C", top[0].Name) // 10 sold
	assert.Equal(t, "B", top[1].Name) // 7 sold
}

func TestTopSellingTiesKeepCatalogOrder(t *testing.T) {
	expiry := time.Now().AddDate(1, 0, 0)
	a := medicineWith("A", 100, expiry)
	b := medicineWith("B", 100, expiry)
	medicines := []model.Medicine{a, b}

	sales := []model.Sale{
		{MedicineID: a.ID, Quantity: 5},
		{MedicineID: b.ID, Quantity: 5},
	}

	top := TopSelling(medicines, sales, DefaultTopSellingLimit)

	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].Name)
	assert.Equal(t, "B", top[1].Name)
}

func TestTopSellingNeverSellsRankLast(t *testing.T) {
	expiry := time.Now().AddDate(1, 0, 0)
	unsold := medicineWith("unsold", 100, expiry)
	sold := medicineWith("sold", 100, expiry)
	medicines := []model.Medicine{unsold, sold}

	sales := []model.Sale{{MedicineID: sold.ID, Quantity: 1}}

	top := TopSelling(medicines, sales, 0)

	require.Len(t, top, 2)
	assert.Equal(t, "sold", top[0].Name)
}

func TestSoldQuantitiesAccumulates(t *testing.T) {
	id := uuid.New()
	sales := []model.Sale{
		{MedicineID: id, Quantity: 2},
		{MedicineID: id, Quantity: 3},
	}

	assert.Equal(t, 5, SoldQuantities(sales)[id])
}
