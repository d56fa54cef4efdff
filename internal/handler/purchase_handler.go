package handler

import (
	"errors"
	"time"

	"go-pharmacy-pos/internal/model"
	"go-pharmacy-pos/internal/repository"
	"go-pharmacy-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PurchaseHandler struct {
	purchaseService service.PurchaseService
}

func NewPurchaseHandler(purchaseService service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// CreatePurchase records an incoming supplier order.
// POST /api/v1/purchases
func (h *PurchaseHandler) CreatePurchase(c *fiber.Ctx) error {
	var req service.RecordPurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	purchase, err := h.purchaseService.RecordPurchase(&req, getUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrMedicineNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Medicine not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Purchase recorded", "data": purchase})
}

// UpdatePurchaseStatusRequest represents the status transition body
type UpdatePurchaseStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a purchase through its lifecycle. Receiving an
// order credits stock; cancelling a received order debits it back.
// PUT /api/v1/purchases/:id/status
func (h *PurchaseHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	purchaseID, err := parseUUID(id)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase ID"})
	}

	var req UpdatePurchaseStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	purchase, err := h.purchaseService.UpdateStatus(purchaseID, model.PurchaseStatus(req.Status), getUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPurchaseNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Purchase not found"})
		case errors.Is(err, model.ErrInvalidTransition):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrInsufficientStock):
			return c.Status(409).JSON(fiber.Map{"error": "Cannot cancel: received stock already sold"})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"message": "Purchase status updated", "data": purchase})
}

// GetPurchases supports optional ?status= and ?start_date=&end_date=
// filters (dates as YYYY-MM-DD).
func (h *PurchaseHandler) GetPurchases(c *fiber.Ctx) error {
	if status := c.Query("status"); status != "" {
		purchases, err := h.purchaseService.GetPurchasesByStatus(model.PurchaseStatus(status))
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(purchases)
	}

	if start := c.Query("start_date"); start != "" {
		startDate, err := time.Parse("2006-01-02", start)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid start_date format, use YYYY-MM-DD"})
		}
		endDate := time.Now()
		if end := c.Query("end_date"); end != "" {
			endDate, err = time.Parse("2006-01-02", end)
			if err != nil {
				return c.Status(400).JSON(fiber.Map{"error": "Invalid end_date format, use YYYY-MM-DD"})
			}
			// Make the end date inclusive
			endDate = endDate.AddDate(0, 0, 1)
		}
		purchases, err := h.purchaseService.GetPurchasesByDateRange(startDate, endDate)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
		return c.JSON(purchases)
	}

	purchases, err := h.purchaseService.GetAllPurchases()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(purchases)
}

func (h *PurchaseHandler) GetPurchase(c *fiber.Ctx) error {
	id := c.Params("id")

	purchaseID, err := parseUUID(id)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase ID"})
	}

	purchase, err := h.purchaseService.GetPurchaseByID(purchaseID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Purchase not found"})
	}

	return c.JSON(purchase)
}
