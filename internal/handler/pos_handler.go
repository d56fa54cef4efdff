package handler

import (
	"go-pharmacy-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type POSHandler struct {
	salesService service.SalesService
}

func NewPOSHandler(salesService service.SalesService) *POSHandler {
	return &POSHandler{salesService: salesService}
}

// Checkout commits a cart line by line and reports exactly which lines
// landed. A partial failure still returns 200 with the per-line detail;
// the client is expected to surface it, not retry blindly.
// POST /api/v1/pos/checkout
func (h *POSHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.salesService.Checkout(&req, getUserID(c), getUserName(c), getUserEmail(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	status := 200
	if result.Status == service.CheckoutFailed {
		status = 422
	}
	return c.Status(status).JSON(result)
}
