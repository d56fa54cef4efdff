package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-pharmacy-pos/internal/cache"
	"go-pharmacy-pos/internal/export"
	"go-pharmacy-pos/internal/model"
	"go-pharmacy-pos/internal/report"
	"go-pharmacy-pos/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	dashboardStatsCacheKey = "dashboard:stats"
	dashboardStatsCacheTTL = 30 * time.Second
)

// DashboardStats for the overview cards. Period revenues are precise
// range queries, not extrapolations from a partial period.
type DashboardStats struct {
	TotalMedicines    int64           `json:"total_medicines"`
	LowStockCount     int             `json:"low_stock_count"`
	ExpiringSoonCount int             `json:"expiring_soon_count"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	RevenueToday      decimal.Decimal `json:"revenue_today"`
	RevenueLast7Days  decimal.Decimal `json:"revenue_last_7_days"`
	RevenueLast30Days decimal.Decimal `json:"revenue_last_30_days"`
}

// InventoryReportItem carries the per-medicine flags for the inventory
// report view; the expiry flag here uses the long 90 day window, not
// the dashboard's 5 day one.
type InventoryReportItem struct {
	model.Medicine
	LowStock     bool `json:"low_stock"`
	ExpiringSoon bool `json:"expiring_soon"`
}

type ReportService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	GetExpiringAlerts() ([]model.Medicine, error)
	GetLowStockReport(threshold int) ([]model.Medicine, error)
	GetInventoryReport() ([]InventoryReportItem, error)
	GetSalesReport(startDate, endDate time.Time) ([]model.Sale, error)
	GetFinancialReport(startDate, endDate time.Time) ([]repository.RevenueByDateRow, error)
	GetTopSellingMedicines(limit int) ([]model.Medicine, error)
	ExportReport(reportType, format string) (data []byte, fileName string, err error)
}

type reportService struct {
	medicineRepo repository.MedicineRepository
	saleRepo     repository.SaleRepository
	statsCache   cache.StatsCache
}

func NewReportService(medicineRepo repository.MedicineRepository, saleRepo repository.SaleRepository, statsCache cache.StatsCache) ReportService {
	return &reportService{
		medicineRepo: medicineRepo,
		saleRepo:     saleRepo,
		statsCache:   statsCache,
	}
}

func (s *reportService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	// 1. Serve from cache when fresh; a cache failure is not fatal
	if raw, ok, err := s.statsCache.Get(ctx, dashboardStatsCacheKey); err == nil && ok {
		var stats DashboardStats
		if err := json.Unmarshal(raw, &stats); err == nil {
			return &stats, nil
		}
	}

	// 2. Recompute from the store
	medicines, err := s.medicineRepo.FindAll()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := &DashboardStats{
		TotalMedicines:    int64(len(medicines)),
		LowStockCount:     len(report.LowStock(medicines, report.DefaultLowStockThreshold)),
		ExpiringSoonCount: len(report.ExpiringWithin(medicines, now, report.DashboardExpiryWindowDays)),
	}

	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if stats.RevenueToday, err = s.saleRepo.RevenueBetween(startOfToday, now); err != nil {
		return nil, err
	}
	if stats.RevenueLast7Days, err = s.saleRepo.RevenueBetween(now.AddDate(0, 0, -7), now); err != nil {
		return nil, err
	}
	if stats.RevenueLast30Days, err = s.saleRepo.RevenueBetween(now.AddDate(0, 0, -30), now); err != nil {
		return nil, err
	}
	if stats.TotalRevenue, err = s.saleRepo.RevenueBetween(time.Time{}, now); err != nil {
		return nil, err
	}

	// 3. Refresh the cache, best effort
	if raw, err := json.Marshal(stats); err == nil {
		_ = s.statsCache.Set(ctx, dashboardStatsCacheKey, raw, dashboardStatsCacheTTL)
	}

	return stats, nil
}

// GetExpiringAlerts uses the dashboard's short 5 day look-ahead.
func (s *reportService) GetExpiringAlerts() ([]model.Medicine, error) {
	medicines, err := s.medicineRepo.FindAll()
	if err != nil {
		return nil, err
	}
	return report.ExpiringWithin(medicines, time.Now(), report.DashboardExpiryWindowDays), nil
}

func (s *reportService) GetLowStockReport(threshold int) ([]model.Medicine, error) {
	if threshold <= 0 {
		threshold = report.DefaultLowStockThreshold
	}
	medicines, err := s.medicineRepo.FindAll()
	if err != nil {
		return nil, err
	}
	return report.LowStock(medicines, threshold), nil
}

func (s *reportService) GetInventoryReport() ([]InventoryReportItem, error) {
	medicines, err := s.medicineRepo.FindAll()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]InventoryReportItem, len(medicines))
	for i, m := range medicines {
		items[i] = InventoryReportItem{
			Medicine:     m,
			LowStock:     m.IsLowStock(report.DefaultLowStockThreshold),
			ExpiringSoon: m.IsExpiringWithin(now, report.ReportExpiryWindowDays),
		}
	}
	return items, nil
}

func (s *reportService) GetSalesReport(startDate, endDate time.Time) ([]model.Sale, error) {
	return s.saleRepo.FindByDateRange(startDate, endDate)
}

func (s *reportService) GetFinancialReport(startDate, endDate time.Time) ([]repository.RevenueByDateRow, error) {
	return s.saleRepo.RevenueByDate(startDate, endDate)
}

func (s *reportService) GetTopSellingMedicines(limit int) ([]model.Medicine, error) {
	if limit <= 0 {
		limit = report.DefaultTopSellingLimit
	}
	medicines, err := s.medicineRepo.FindAll()
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.FindAll()
	if err != nil {
		return nil, err
	}
	// FindAll returns catalog insertion order, which breaks ties
	return report.TopSelling(medicines, sales, limit), nil
}

func (s *reportService) ExportReport(reportType, format string) ([]byte, string, error) {
	var table export.Table

	switch reportType {
	case export.ReportInventory:
		medicines, err := s.medicineRepo.FindAll()
		if err != nil {
			return nil, "", err
		}
		table = export.BuildInventoryTable(medicines)
	case export.ReportSales:
		sales, err := s.saleRepo.FindAll()
		if err != nil {
			return nil, "", err
		}
		medicines, err := s.medicineRepo.FindAll()
		if err != nil {
			return nil, "", err
		}
		table = export.BuildSalesTable(sales, medicines)
	case export.ReportFinancial:
		sales, err := s.saleRepo.FindAll()
		if err != nil {
			return nil, "", err
		}
		table = export.BuildFinancialTable(sales)
	default:
		return nil, "", fmt.Errorf("unknown report type: %s", reportType)
	}

	fileName := export.FileName(reportType, format, time.Now())

	switch format {
	case export.FormatXLSX:
		data, err := export.WriteXLSX(table)
		return data, fileName, err
	case export.FormatCSV:
		data, err := export.WriteCSV(table)
		return data, fileName, err
	default:
		return nil, "", fmt.Errorf("unknown export format: %s", format)
	}
}
