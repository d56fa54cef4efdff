package handler

import (
	"fmt"

	"go-pharmacy-pos/internal/model"
	"go-pharmacy-pos/internal/repository"
	"go-pharmacy-pos/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type VendorHandler struct {
	vendorRepo repository.VendorRepository
}

func NewVendorHandler(vendorRepo repository.VendorRepository) *VendorHandler {
	return &VendorHandler{vendorRepo: vendorRepo}
}

func (h *VendorHandler) CreateVendor(c *fiber.Ctx) error {
	var vendor model.Vendor
	if err := c.BodyParser(&vendor); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&vendor); len(errs) > 0 {
		firstErr := errs[0]
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag),
		})
	}

	vendor.CreatedBy = getUserID(c)
	vendor.UpdatedBy = getUserID(c)

	if err := h.vendorRepo.Create(&vendor); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create vendor"})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Vendor created", "data": vendor})
}

func (h *VendorHandler) GetVendors(c *fiber.Ctx) error {
	vendors, err := h.vendorRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch vendors"})
	}
	return c.JSON(vendors)
}

func (h *VendorHandler) GetVendor(c *fiber.Ctx) error {
	vendorID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid vendor ID"})
	}

	vendor, err := h.vendorRepo.FindByID(vendorID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Vendor not found"})
	}
	return c.JSON(vendor)
}

func (h *VendorHandler) UpdateVendor(c *fiber.Ctx) error {
	vendorID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid vendor ID"})
	}

	vendor, err := h.vendorRepo.FindByID(vendorID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Vendor not found"})
	}

	var req model.Vendor
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		firstErr := errs[0]
		return c.Status(400).JSON(fiber.Map{
			"error": fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag),
		})
	}

	vendor.Name = req.Name
	vendor.ServiceType = req.ServiceType
	vendor.Email = req.Email
	vendor.PhoneNumber = req.PhoneNumber
	vendor.Address = req.Address
	vendor.UpdatedBy = getUserID(c)

	if err := h.vendorRepo.Update(vendor); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update vendor"})
	}

	return c.JSON(fiber.Map{"message": "Vendor updated", "data": vendor})
}

func (h *VendorHandler) DeleteVendor(c *fiber.Ctx) error {
	vendorID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid vendor ID"})
	}

	if err := h.vendorRepo.Delete(vendorID); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete vendor"})
	}

	return c.JSON(fiber.Map{"message": "Vendor deleted"})
}
