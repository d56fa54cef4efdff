package repository

import (
	"errors"

	"go-pharmacy-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMedicineNotFound  = errors.New("medicine not found")
	ErrInsufficientStock = errors.New("insufficient stock remaining")
)

type MedicineRepository interface {
	Create(medicine *model.Medicine) error
	FindAll() ([]model.Medicine, error)
	FindByID(id uuid.UUID) (*model.Medicine, error)
	FindByBarcode(barcode string) (*model.Medicine, error)
	Update(medicine *model.Medicine) error
	Delete(id uuid.UUID, deletedBy string) error
	AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) error
}

type medicineRepo struct {
	db *gorm.DB
}

func NewMedicineRepo(db *gorm.DB) MedicineRepository {
	return &medicineRepo{db}
}

func (r *medicineRepo) Create(medicine *model.Medicine) error {
	return r.db.Create(medicine).Error
}

func (r *medicineRepo) FindAll() ([]model.Medicine, error) {
	var medicines []model.Medicine
	err := r.db.Order("created_at ASC").Find(&medicines).Error
	return medicines, err
}

func (r *medicineRepo) FindByID(id uuid.UUID) (*model.Medicine, error) {
	var medicine model.Medicine
	if err := r.db.First(&medicine, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMedicineNotFound
		}
		return nil, err
	}
	return &medicine, nil
}

// FindByBarcode matches on exact string equality only. No trimming, no
// case folding: a near-miss must not match.
func (r *medicineRepo) FindByBarcode(barcode string) (*model.Medicine, error) {
	var medicine model.Medicine
	if err := r.db.First(&medicine, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMedicineNotFound
		}
		return nil, err
	}
	return &medicine, nil
}

func (r *medicineRepo) Update(medicine *model.Medicine) error {
	return r.db.Save(medicine).Error
}

func (r *medicineRepo) Delete(id uuid.UUID, deletedBy string) error {
	if err := r.db.Model(&model.Medicine{}).Where("id = ?", id).
		Update("deleted_by", deletedBy).Error; err != nil {
		return err
	}
	return r.db.Delete(&model.Medicine{}, "id = ?", id).Error
}

// AdjustStock applies a signed delta as a single conditional UPDATE:
// the stock check and the decrement are one statement, so two racing
// sales cannot both pass a stale read and drive stock negative.
// Runs on the given tx so callers can pair it with a ledger append.
func (r *medicineRepo) AdjustStock(tx *gorm.DB, id uuid.UUID, delta int) error {
	res := tx.Model(&model.Medicine{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing document from a rejected decrement
		var count int64
		if err := tx.Model(&model.Medicine{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrMedicineNotFound
		}
		return ErrInsufficientStock
	}
	return nil
}
