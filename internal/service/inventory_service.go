package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-pharmacy-pos/internal/model"
	"go-pharmacy-pos/internal/repository"
	"go-pharmacy-pos/internal/ws"
	"go-pharmacy-pos/pkg/codegen"
	"go-pharmacy-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrBarcodeExists = errors.New("barcode already exists")

type InventoryService interface {
	CreateMedicine(req *model.Medicine, userID, userName, userEmail string) error
	UpdateMedicine(id uuid.UUID, req *model.Medicine, userID, userName, userEmail string) (*model.Medicine, error)
	DeleteMedicine(id uuid.UUID, userID string) error
	GetAllMedicines() ([]model.Medicine, error)
	GetMedicineByID(id uuid.UUID) (*model.Medicine, error)
	GetMedicineByBarcode(code string) (*model.Medicine, error)
}

type inventoryService struct {
	medicineRepo repository.MedicineRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewInventoryService(mRepo repository.MedicineRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		medicineRepo: mRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *inventoryService) CreateMedicine(req *model.Medicine, userID, userName, userEmail string) error {
	// 1. Basic struct validation
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Generate a barcode at catalog-entry time when the form left it blank
	if req.Barcode == nil || *req.Barcode == "" {
		code := codegen.Barcode(time.Now())
		req.Barcode = &code
	} else {
		// Client-supplied barcode: reject duplicates up front
		existing, _ := s.medicineRepo.FindByBarcode(*req.Barcode)
		if barcodeTaken(existing, uuid.Nil) {
			return ErrBarcodeExists
		}
	}

	// 3. Set audit fields
	req.CreatedBy = userID
	req.UpdatedBy = userID
	if uid, err := uuid.Parse(userID); err == nil {
		req.CreatedByUserID = &uid
		req.UpdatedByUserID = &uid
	}

	// 4. Save; the unique index backstops generated-barcode collisions
	if err := s.medicineRepo.Create(req); err != nil {
		return err
	}

	// 5. Broadcast to connected terminals
	s.broadcastStockUpdate("medicine_created", req, nil, userID, userName, userEmail,
		fmt.Sprintf("%s added '%s' to the catalog", userName, req.Name))

	return nil
}

func (s *inventoryService) UpdateMedicine(id uuid.UUID, req *model.Medicine, userID, userName, userEmail string) (*model.Medicine, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	var updated *model.Medicine

	// Transaction block with pessimistic locking so the edit form's
	// stock write does not interleave with a concurrent sale
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing model.Medicine
		if err := repository.LockForUpdate(tx).First(&existing, "id = ?", id).Error; err != nil {
			return repository.ErrMedicineNotFound
		}

		// Changing the barcode to one already on another medicine is a
		// validation error, not a bare unique-index failure
		if req.Barcode != nil && *req.Barcode != "" {
			holder, _ := s.medicineRepo.FindByBarcode(*req.Barcode)
			if barcodeTaken(holder, existing.ID) {
				return ErrBarcodeExists
			}
		}

		oldStock := existing.Stock

		existing.Name = req.Name
		existing.Manufacturer = req.Manufacturer
		existing.Category = req.Category
		existing.Price = req.Price
		existing.Stock = req.Stock
		existing.ExpiryDate = req.ExpiryDate
		if req.Barcode != nil && *req.Barcode != "" {
			existing.Barcode = req.Barcode
		}
		existing.UpdatedBy = userID
		if uid, err := uuid.Parse(userID); err == nil {
			existing.UpdatedByUserID = &uid
		}

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		updated = &existing

		s.broadcastStockUpdate("medicine_updated", &existing, &oldStock, userID, userName, userEmail,
			fmt.Sprintf("%s updated '%s'", userName, existing.Name))

		return nil
	})

	if err != nil {
		return nil, err
	}
	return updated, nil
}

// barcodeTaken reports whether holder is some other medicine already
// carrying the barcode. selfID is uuid.Nil on the create path, so any
// holder at all is a conflict there.
func barcodeTaken(holder *model.Medicine, selfID uuid.UUID) bool {
	return holder != nil && holder.ID != uuid.Nil && holder.ID != selfID
}

func (s *inventoryService) DeleteMedicine(id uuid.UUID, userID string) error {
	if _, err := s.medicineRepo.FindByID(id); err != nil {
		return err
	}
	return s.medicineRepo.Delete(id, userID)
}

func (s *inventoryService) GetAllMedicines() ([]model.Medicine, error) {
	return s.medicineRepo.FindAll()
}

func (s *inventoryService) GetMedicineByID(id uuid.UUID) (*model.Medicine, error) {
	return s.medicineRepo.FindByID(id)
}

func (s *inventoryService) GetMedicineByBarcode(code string) (*model.Medicine, error) {
	return s.medicineRepo.FindByBarcode(code)
}

func (s *inventoryService) broadcastStockUpdate(action string, m *model.Medicine, oldStock *int, userID, userName, userEmail, message string) {
	go func() {
		medicine := map[string]interface{}{
			"id":       m.ID,
			"name":     m.Name,
			"stock":    m.Stock,
			"price":    m.Price,
			"category": m.Category,
		}
		if oldStock != nil {
			medicine["old_stock"] = *oldStock
			medicine["new_stock"] = m.Stock
		}

		payload := map[string]interface{}{
			"type":     "stock_update",
			"action":   action,
			"medicine": medicine,
			"user": map[string]interface{}{
				"id":    userID,
				"name":  userName,
				"email": userEmail,
			},
			"message": message,
		}
		msg, _ := json.Marshal(payload)
		s.wsHub.Broadcast <- msg
	}()
}
