package repository

import (
	"errors"
	"time"

	"go-pharmacy-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrPurchaseNotFound = errors.New("purchase not found")

type PurchaseRepository interface {
	// Create inserts the order; when it arrives already "received" the
	// stock increment rides in the same transaction.
	Create(purchase *model.Purchase) error
	// UpdateStatus applies the status transition rules and the stock
	// delta they imply atomically.
	UpdateStatus(id uuid.UUID, next model.PurchaseStatus, updatedBy string) (*model.Purchase, error)
	FindAll() ([]model.Purchase, error)
	FindByID(id uuid.UUID) (*model.Purchase, error)
	FindByStatus(status model.PurchaseStatus) ([]model.Purchase, error)
	FindByDateRange(startDate, endDate time.Time) ([]model.Purchase, error)
}

type purchaseRepo struct {
	db           *gorm.DB
	medicineRepo MedicineRepository
}

func NewPurchaseRepo(db *gorm.DB, medicineRepo MedicineRepository) PurchaseRepository {
	return &purchaseRepo{db: db, medicineRepo: medicineRepo}
}

func (r *purchaseRepo) Create(purchase *model.Purchase) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if purchase.Status == model.PurchaseReceived {
			if err := r.medicineRepo.AdjustStock(tx, purchase.MedicineID, purchase.Quantity); err != nil {
				return err
			}
		}
		return tx.Create(purchase).Error
	})
}

func (r *purchaseRepo) UpdateStatus(id uuid.UUID, next model.PurchaseStatus, updatedBy string) (*model.Purchase, error) {
	var updated *model.Purchase

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var purchase model.Purchase
		// Lock the row so the transition check and the stock delta see
		// the same state
		if err := LockForUpdate(tx).First(&purchase, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPurchaseNotFound
			}
			return err
		}

		delta, err := purchase.TransitionDelta(next)
		if err != nil {
			return err
		}

		if delta != 0 {
			// Cancelling a received order whose goods already sold would
			// drive stock negative; AdjustStock rejects that, which
			// rejects the cancel.
			if err := r.medicineRepo.AdjustStock(tx, purchase.MedicineID, delta); err != nil {
				return err
			}
		}

		purchase.Status = next
		purchase.UpdatedBy = updatedBy
		if err := tx.Save(&purchase).Error; err != nil {
			return err
		}

		updated = &purchase
		return nil
	})

	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *purchaseRepo) FindAll() ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.db.Preload("Medicine").Preload("Supplier").
		Order("date DESC").Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepo) FindByID(id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	err := r.db.Preload("Medicine").Preload("Supplier").First(&purchase, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPurchaseNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepo) FindByStatus(status model.PurchaseStatus) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.db.Preload("Medicine").Preload("Supplier").
		Where("status = ?", status).Order("date DESC").Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepo) FindByDateRange(startDate, endDate time.Time) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.db.Preload("Medicine").Preload("Supplier").
		Where("date BETWEEN ? AND ?", startDate, endDate).
		Order("date DESC").Find(&purchases).Error
	return purchases, err
}
