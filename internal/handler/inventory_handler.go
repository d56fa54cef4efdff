package handler

import (
	"errors"

	"go-pharmacy-pos/internal/model"
	"go-pharmacy-pos/internal/repository"
	"go-pharmacy-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// Helpers to pull user info from JWT context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system" // Fallback (shouldn't happen in protected routes)
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

func getUserEmail(c *fiber.Ctx) string {
	userEmail := c.Locals("user_email")
	if userEmail == nil {
		return ""
	}
	return userEmail.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

func (h *InventoryHandler) CreateMedicine(c *fiber.Ctx) error {
	var medicine model.Medicine
	if err := c.BodyParser(&medicine); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID := getUserID(c)
	userName := getUserName(c)
	userEmail := getUserEmail(c)

	if err := h.service.CreateMedicine(&medicine, userID, userName, userEmail); err != nil {
		if errors.Is(err, service.ErrBarcodeExists) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Medicine created", "data": medicine})
}

func (h *InventoryHandler) UpdateMedicine(c *fiber.Ctx) error {
	id := c.Params("id")

	var medicine model.Medicine
	if err := c.BodyParser(&medicine); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	userID := getUserID(c)
	userName := getUserName(c)
	userEmail := getUserEmail(c)

	medicineID, err := parseUUID(id)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid medicine ID"})
	}

	updated, err := h.service.UpdateMedicine(medicineID, &medicine, userID, userName, userEmail)
	if err != nil {
		if errors.Is(err, repository.ErrMedicineNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Medicine not found"})
		}
		if errors.Is(err, service.ErrBarcodeExists) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "Medicine updated", "data": updated})
}

func (h *InventoryHandler) DeleteMedicine(c *fiber.Ctx) error {
	id := c.Params("id")

	medicineID, err := parseUUID(id)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid medicine ID"})
	}

	if err := h.service.DeleteMedicine(medicineID, getUserID(c)); err != nil {
		if errors.Is(err, repository.ErrMedicineNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Medicine not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.JSON(fiber.Map{"message": "Medicine deleted"})
}

func (h *InventoryHandler) GetMedicines(c *fiber.Ctx) error {
	medicines, err := h.service.GetAllMedicines()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(medicines)
}

func (h *InventoryHandler) GetMedicine(c *fiber.Ctx) error {
	id := c.Params("id")

	medicineID, err := parseUUID(id)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid medicine ID"})
	}

	medicine, err := h.service.GetMedicineByID(medicineID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Medicine not found"})
	}

	return c.JSON(medicine)
}

// GetMedicineByBarcode serves the scanner lookup on the POS screen.
// GET /api/v1/medicines/barcode/:code
func (h *InventoryHandler) GetMedicineByBarcode(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Barcode is required"})
	}

	medicine, err := h.service.GetMedicineByBarcode(code)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "No medicine matches this barcode"})
	}

	return c.JSON(medicine)
}
