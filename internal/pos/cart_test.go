package pos

import (
	"testing"

	"go-pharmacy-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMedicine(name, price string, barcode string) model.Medicine {
	m := model.Medicine{
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
	m.ID = uuid.New()
	if barcode != "" {
		m.Barcode = &barcode
	}
	return m
}

func TestAddNewLineThenIncrement(t *testing.T) {
	cart := NewCart()
	paracetamol := testMedicine("Paracetamol", "9.99", "")

	cart.Add(&paracetamol)
	require.Equal(t, 1, cart.Len())
	assert.Equal(t, 1, cart.Lines()[0].Quantity)

	// Adding the same medicine again increments, never duplicates.
	cart.Add(&paracetamol)
	require.Equal(t, 1, cart.Len())
	assert.Equal(t, 2, cart.Lines()[0].Quantity)
}

func TestAddLineMergesSameMedicine(t *testing.T) {
	cart := NewCart()
	id := uuid.New()

	cart.AddLine(Line{MedicineID: id, UnitPrice: decimal.RequireFromString("9.99"), Quantity: 2})
	cart.AddLine(Line{MedicineID: uuid.New(), UnitPrice: decimal.RequireFromString("1.00"), Quantity: 1})
	cart.AddLine(Line{MedicineID: id, UnitPrice: decimal.RequireFromString("4.00"), Quantity: 3})

	require.Equal(t, 2, cart.Len())
	merged := cart.Lines()[0]
	assert.Equal(t, id, merged.MedicineID)
	assert.Equal(t, 5, merged.Quantity)
	// First occurrence keeps its price snapshot
	assert.True(t, merged.UnitPrice.Equal(decimal.RequireFromString("9.99")))

	// Non-positive quantities are ignored
	cart.AddLine(Line{MedicineID: uuid.New(), Quantity: 0})
	assert.Equal(t, 2, cart.Len())
}

func TestTotalRecomputedFromLines(t *testing.T) {
	cart := NewCart()
	paracetamol := testMedicine("Paracetamol", "9.99", "")
	ibuprofen := testMedicine("Ibuprofen", "12.50", "")

	for i := 0; i < 5; i++ {
		cart.Add(&paracetamol)
	}
	cart.Add(&ibuprofen)

	// 5 * 9.99 + 12.50 = 62.45, exact decimal arithmetic
	assert.True(t, cart.Total().Equal(decimal.RequireFromString("62.45")),
		"got %s", cart.Total())

	cart.Decrement(ibuprofen.ID)
	assert.True(t, cart.Total().Equal(decimal.RequireFromString("49.95")),
		"got %s", cart.Total())
}

func TestDecrementRemovesLineAtZero(t *testing.T) {
	cart := NewCart()
	amoxicillin := testMedicine("Amoxicillin", "15.00", "")

	cart.Add(&amoxicillin)
	cart.Decrement(amoxicillin.ID)

	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total().IsZero())
}

func TestRemoveDropsWholeLine(t *testing.T) {
	cart := NewCart()
	a := testMedicine("A", "1.00", "")
	b := testMedicine("B", "2.00", "")

	cart.Add(&a)
	cart.Add(&b)
	cart.Add(&b)

	cart.Remove(b.ID)
	require.Equal(t, 1, cart.Len())
	assert.Equal(t, "A", cart.Lines()[0].Name)
}

func TestAddByBarcodeExactMatch(t *testing.T) {
	catalog := []model.Medicine{
		testMedicine("Paracetamol", "9.99", "2601151234567"),
		testMedicine("Ibuprofen", "12.50", "2601159876543"),
	}

	cart := NewCart()
	found, err := cart.AddByBarcode("2601159876543", catalog)
	require.NoError(t, err)
	assert.Equal(t, "Ibuprofen", found.Name)
	require.Equal(t, 1, cart.Len())

	// Near-miss codes do not match and leave the cart unchanged.
	_, err = cart.AddByBarcode(" 2601159876543", catalog)
	assert.ErrorIs(t, err, ErrNoBarcodeMatch)
	_, err = cart.AddByBarcode("2601159876544", catalog)
	assert.ErrorIs(t, err, ErrNoBarcodeMatch)
	assert.Equal(t, 1, cart.Len())
}

func TestLinesPreserveInsertionOrder(t *testing.T) {
	cart := NewCart()
	a := testMedicine("A", "1.00", "")
	b := testMedicine("B", "2.00", "")
	c := testMedicine("C", "3.00", "")

	cart.Add(&b)
	cart.Add(&a)
	cart.Add(&c)
	cart.Add(&a) // increment must not reorder

	names := []string{}
	for _, l := range cart.Lines() {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"B", "A", "C"}, names)
}

func TestUnitPriceSnapshotSurvivesCatalogEdit(t *testing.T) {
	cart := NewCart()
	m := testMedicine("Paracetamol", "9.99", "")

	cart.Add(&m)
	m.Price = decimal.RequireFromString("19.99")

	assert.True(t, cart.Lines()[0].UnitPrice.Equal(decimal.RequireFromString("9.99")))
	assert.True(t, cart.Total().Equal(decimal.RequireFromString("9.99")))
}

func TestClear(t *testing.T) {
	cart := NewCart()
	m := testMedicine("Paracetamol", "9.99", "")
	cart.Add(&m)

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.Len())
}
