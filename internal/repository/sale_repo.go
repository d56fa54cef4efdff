package repository

import (
	"time"

	"go-pharmacy-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	// Record decrements stock and appends the ledger row in one database
	// transaction. Either both happen or neither does.
	Record(sale *model.Sale) error
	FindAll() ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	FindByDateRange(startDate, endDate time.Time) ([]model.Sale, error)
	RevenueByDate(startDate, endDate time.Time) ([]RevenueByDateRow, error)
	RevenueBetween(startDate, endDate time.Time) (decimal.Decimal, error)
}

// RevenueByDateRow for financial report data
type RevenueByDateRow struct {
	Date         string          `json:"date"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int64           `json:"transactions"`
}

type saleRepo struct {
	db           *gorm.DB
	medicineRepo MedicineRepository
}

func NewSaleRepo(db *gorm.DB, medicineRepo MedicineRepository) SaleRepository {
	return &saleRepo{db: db, medicineRepo: medicineRepo}
}

func (r *saleRepo) Record(sale *model.Sale) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// A. Atomic conditional decrement; rejects insufficient stock
		if err := r.medicineRepo.AdjustStock(tx, sale.MedicineID, -sale.Quantity); err != nil {
			return err
		}

		// B. Append the immutable ledger row
		return tx.Create(sale).Error
	})
}

func (r *saleRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Medicine").Preload("Customer").Preload("CreatedByUser").
		Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Medicine").Preload("Customer").Preload("CreatedByUser").
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) FindByDateRange(startDate, endDate time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Medicine").Preload("Customer").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) RevenueByDate(startDate, endDate time.Time) ([]RevenueByDateRow, error) {
	var results []RevenueByDateRow

	rows, err := r.db.Model(&model.Sale{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(total_amount), 0) as revenue,
			COUNT(*) as transactions
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row RevenueByDateRow
		if err := rows.Scan(&row.Date, &row.Revenue, &row.Transactions); err != nil {
			return nil, err
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

// RevenueBetween is a precise period query. The dashboard's weekly and
// monthly figures come from here with real date ranges, not from
// multiplying a partial-period sum.
func (r *saleRepo) RevenueBetween(startDate, endDate time.Time) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	err := r.db.Model(&model.Sale{}).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error
	return revenue, err
}
