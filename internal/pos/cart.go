// Package pos holds the point-of-sale cart: a transient, in-memory list
// of catalog lines. It is never persisted and goes stale the moment
// another terminal changes stock; the checkout path revalidates against
// the store.
package pos

import (
	"errors"

	"go-pharmacy-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNoBarcodeMatch = errors.New("no medicine matches barcode")

// Line is one cart entry. UnitPrice is a snapshot taken when the item
// was added; later catalog price edits do not touch it.
type Line struct {
	MedicineID uuid.UUID       `json:"medicine_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
}

// Subtotal returns price * quantity for this line.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart preserves insertion order; checkout commits lines in exactly
// this order.
type Cart struct {
	lines []Line
}

func NewCart() *Cart {
	return &Cart{}
}

// Add inserts a new line at quantity 1, or increments the existing line
// for the same medicine by 1.
func (c *Cart) Add(m *model.Medicine) {
	c.AddLine(Line{
		MedicineID: m.ID,
		Name:       m.Name,
		UnitPrice:  m.Price,
		Quantity:   1,
	})
}

// AddLine merges a prepared line into the cart. Quantities for the same
// medicine accumulate on the existing line, which keeps its original
// unit price snapshot and position.
func (c *Cart) AddLine(l Line) {
	if l.Quantity <= 0 {
		return
	}
	for i := range c.lines {
		if c.lines[i].MedicineID == l.MedicineID {
			c.lines[i].Quantity += l.Quantity
			return
		}
	}
	c.lines = append(c.lines, l)
}

// AddByBarcode matches the scanned code against the catalog by exact
// string equality only; whitespace or case differences do not match.
// On a miss the cart is left unchanged.
func (c *Cart) AddByBarcode(code string, catalog []model.Medicine) (*model.Medicine, error) {
	for i := range catalog {
		if catalog[i].Barcode != nil && *catalog[i].Barcode == code {
			c.Add(&catalog[i])
			return &catalog[i], nil
		}
	}
	return nil, ErrNoBarcodeMatch
}

// Increment raises a line's quantity by 1. Unknown ids are ignored.
func (c *Cart) Increment(medicineID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].MedicineID == medicineID {
			c.lines[i].Quantity++
			return
		}
	}
}

// Decrement lowers a line's quantity by 1; reaching 0 removes the line.
func (c *Cart) Decrement(medicineID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].MedicineID == medicineID {
			c.lines[i].Quantity--
			if c.lines[i].Quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			}
			return
		}
	}
}

// Remove drops a line regardless of quantity.
func (c *Cart) Remove(medicineID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].MedicineID == medicineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Lines returns the cart content in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total is recomputed from current lines on every call, never cached.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = nil
}
