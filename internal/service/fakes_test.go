package service

import (
	"time"

	"go-pharmacy-pos/internal/model"
	"go-pharmacy-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// fakeSaleRepo implements repository.SaleRepository over an in-memory
// stock map. Record mirrors the real transactional contract: the stock
// decrement and the ledger append either both happen or neither does.
type fakeSaleRepo struct {
	stock map[uuid.UUID]int
	sales []model.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{stock: map[uuid.UUID]int{}}
}

func (f *fakeSaleRepo) Record(sale *model.Sale) error {
	current, ok := f.stock[sale.MedicineID]
	if !ok {
		return repository.ErrMedicineNotFound
	}
	if current < sale.Quantity {
		return repository.ErrInsufficientStock
	}
	f.stock[sale.MedicineID] = current - sale.Quantity

	sale.ID = uuid.New()
	sale.CreatedAt = time.Now()
	f.sales = append(f.sales, *sale)
	return nil
}

func (f *fakeSaleRepo) FindAll() ([]model.Sale, error) {
	out := make([]model.Sale, len(f.sales))
	copy(out, f.sales)
	return out, nil
}

func (f *fakeSaleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	for i := range f.sales {
		if f.sales[i].ID == id {
			return &f.sales[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSaleRepo) FindByDateRange(startDate, endDate time.Time) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range f.sales {
		if !s.CreatedAt.Before(startDate) && !s.CreatedAt.After(endDate) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSaleRepo) RevenueByDate(startDate, endDate time.Time) ([]repository.RevenueByDateRow, error) {
	totals := map[string]*repository.RevenueByDateRow{}
	var dates []string
	for _, s := range f.sales {
		date := s.CreatedAt.Format("2006-01-02")
		row := totals[date]
		if row == nil {
			row = &repository.RevenueByDateRow{Date: date, Revenue: decimal.Zero}
			totals[date] = row
			dates = append(dates, date)
		}
		row.Revenue = row.Revenue.Add(s.TotalAmount)
		row.Transactions++
	}
	out := make([]repository.RevenueByDateRow, 0, len(dates))
	for _, d := range dates {
		out = append(out, *totals[d])
	}
	return out, nil
}

func (f *fakeSaleRepo) RevenueBetween(startDate, endDate time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range f.sales {
		if !s.CreatedAt.Before(startDate) && !s.CreatedAt.After(endDate) {
			total = total.Add(s.TotalAmount)
		}
	}
	return total, nil
}

// fakeMedicineRepo keeps a catalog slice in insertion order, matching
// the real repository's FindAll contract.
type fakeMedicineRepo struct {
	medicines []model.Medicine
}

func (f *fakeMedicineRepo) Create(medicine *model.Medicine) error {
	medicine.ID = uuid.New()
	f.medicines = append(f.medicines, *medicine)
	return nil
}

func (f *fakeMedicineRepo) FindAll() ([]model.Medicine, error) {
	out := make([]model.Medicine, len(f.medicines))
	copy(out, f.medicines)
	return out, nil
}

func (f *fakeMedicineRepo) FindByID(id uuid.UUID) (*model.Medicine, error) {
	for i := range f.medicines {
		if f.medicines[i].ID == id {
			return &f.medicines[i], nil
		}
	}
	return nil, repository.ErrMedicineNotFound
}

func (f *fakeMedicineRepo) FindByBarcode(barcode string) (*model.Medicine, error) {
	for i := range f.medicines {
		if f.medicines[i].Barcode != nil && *f.medicines[i].Barcode == barcode {
			return &f.medicines[i], nil
		}
	}
	return nil, repository.ErrMedicineNotFound
}

func (f *fakeMedicineRepo) Update(medicine *model.Medicine) error {
	for i := range f.medicines {
		if f.medicines[i].ID == medicine.ID {
			f.medicines[i] = *medicine
			return nil
		}
	}
	return repository.ErrMedicineNotFound
}

func (f *fakeMedicineRepo) Delete(id uuid.UUID, deletedBy string) error {
	for i := range f.medicines {
		if f.medicines[i].ID == id {
			f.medicines = append(f.medicines[:i], f.medicines[i+1:]...)
			return nil
		}
	}
	return repository.ErrMedicineNotFound
}

func (f *fakeMedicineRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) error {
	for i := range f.medicines {
		if f.medicines[i].ID == id {
			if f.medicines[i].Stock+delta < 0 {
				return repository.ErrInsufficientStock
			}
			f.medicines[i].Stock += delta
			return nil
		}
	}
	return repository.ErrMedicineNotFound
}
