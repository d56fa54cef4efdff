package handler

import (
	"errors"

	"go-pharmacy-pos/internal/repository"
	"go-pharmacy-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SalesHandler struct {
	salesService service.SalesService
}

func NewSalesHandler(salesService service.SalesService) *SalesHandler {
	return &SalesHandler{salesService: salesService}
}

// CreateSale records a single sale line outside the cart flow.
// POST /api/v1/sales
func (h *SalesHandler) CreateSale(c *fiber.Ctx) error {
	var req service.RecordSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.salesService.RecordSale(&req, getUserID(c), getUserName(c), getUserEmail(c))
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return c.Status(409).JSON(fiber.Map{"error": "Insufficient stock"})
		}
		if errors.Is(err, repository.ErrMedicineNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Medicine not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale recorded", "data": sale})
}

func (h *SalesHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.salesService.GetAllSales()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sales)
}

func (h *SalesHandler) GetSale(c *fiber.Ctx) error {
	id := c.Params("id")

	saleID, err := parseUUID(id)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.salesService.GetSaleByID(saleID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Sale not found"})
	}

	return c.JSON(sale)
}
