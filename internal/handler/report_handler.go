package handler

import (
	"strconv"
	"time"

	"go-pharmacy-pos/internal/export"
	"go-pharmacy-pos/internal/report"
	"go-pharmacy-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetDashboardStats returns overview statistics
// GET /api/v1/reports/dashboard
func (h *ReportHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats(c.UserContext())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}

	return c.JSON(stats)
}

// GetExpiringAlerts lists medicines expiring inside the dashboard window
// GET /api/v1/reports/expiring
func (h *ReportHandler) GetExpiringAlerts(c *fiber.Ctx) error {
	medicines, err := h.service.GetExpiringAlerts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch expiry alerts"})
	}
	return c.JSON(medicines)
}

// GetLowStockReport lists medicines under the threshold
// Query params: threshold (default 100)
func (h *ReportHandler) GetLowStockReport(c *fiber.Ctx) error {
	thresholdStr := c.Query("threshold", strconv.Itoa(report.DefaultLowStockThreshold))
	threshold, err := strconv.Atoi(thresholdStr)
	if err != nil || threshold <= 0 {
		threshold = report.DefaultLowStockThreshold
	}

	medicines, err := h.service.GetLowStockReport(threshold)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch low stock report"})
	}
	return c.JSON(medicines)
}

// GetInventoryReport returns the full catalog with low-stock and expiry flags
func (h *ReportHandler) GetInventoryReport(c *fiber.Ctx) error {
	items, err := h.service.GetInventoryReport()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch inventory report"})
	}
	return c.JSON(items)
}

// parseDateRange reads start_date/end_date query params (YYYY-MM-DD);
// defaults to the last 30 days. The end date is inclusive.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	startDate := now.AddDate(0, 0, -30)
	endDate := now

	if start := c.Query("start_date"); start != "" {
		parsed, err := time.Parse("2006-01-02", start)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		startDate = parsed
	}
	if end := c.Query("end_date"); end != "" {
		parsed, err := time.Parse("2006-01-02", end)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		endDate = parsed.AddDate(0, 0, 1)
	}
	return startDate, endDate, nil
}

// GetSalesReport returns sale rows for a period
func (h *ReportHandler) GetSalesReport(c *fiber.Ctx) error {
	startDate, endDate, err := parseDateRange(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date format, use YYYY-MM-DD"})
	}

	sales, err := h.service.GetSalesReport(startDate, endDate)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch sales report"})
	}
	return c.JSON(sales)
}

// GetFinancialReport returns per-day revenue and transaction counts
func (h *ReportHandler) GetFinancialReport(c *fiber.Ctx) error {
	startDate, endDate, err := parseDateRange(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date format, use YYYY-MM-DD"})
	}

	rows, err := h.service.GetFinancialReport(startDate, endDate)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch financial report"})
	}
	return c.JSON(rows)
}

// GetTopSelling returns the best sellers by quantity sold
// Query params: limit (default 5)
func (h *ReportHandler) GetTopSelling(c *fiber.Ctx) error {
	limitStr := c.Query("limit", strconv.Itoa(report.DefaultTopSellingLimit))
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		limit = report.DefaultTopSellingLimit
	}

	medicines, err := h.service.GetTopSellingMedicines(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch top selling medicines"})
	}
	return c.JSON(medicines)
}

// ExportReport streams a report as a spreadsheet download.
// GET /api/v1/reports/export?type=inventory&format=xlsx
func (h *ReportHandler) ExportReport(c *fiber.Ctx) error {
	reportType := c.Query("type", export.ReportInventory)
	format := c.Query("format", export.FormatXLSX)

	data, fileName, err := h.service.ExportReport(reportType, format)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	contentType := "text/csv"
	if format == export.FormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	c.Set("Content-Type", contentType)
	c.Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	return c.Send(data)
}
