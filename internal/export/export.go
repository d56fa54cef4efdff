// Package export turns report data into downloadable spreadsheets.
// Row building is separated from file writing so the column mappings
// stay testable without touching the xlsx library.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"go-pharmacy-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"

	ReportInventory = "inventory"
	ReportSales     = "sales"
	ReportFinancial = "financial"
)

// Table is an ordered tabular row set; maps would lose column order.
type Table struct {
	Headers []string
	Rows    [][]string
}

// FileName follows the upstream convention: <reportType>-report-<isoDate>.<ext>
func FileName(reportType, format string, now time.Time) string {
	return fmt.Sprintf("%s-report-%s.%s", reportType, now.Format("2006-01-02"), format)
}

// BuildInventoryTable emits one row per medicine.
func BuildInventoryTable(medicines []model.Medicine) Table {
	t := Table{
		Headers: []string{"Medicine Name", "Manufacturer", "Category", "Stock", "Price", "Expiry Date"},
	}
	for _, m := range medicines {
		t.Rows = append(t.Rows, []string{
			m.Name,
			m.Manufacturer,
			m.Category,
			fmt.Sprintf("%d", m.Stock),
			"$" + m.Price.StringFixed(2),
			m.ExpiryDate.Format("2006-01-02"),
		})
	}
	return t
}

// BuildSalesTable emits one row per sale, joined against the catalog
// for name and manufacturer. Missing medicines show as Unknown rather
// than dropping the ledger row.
func BuildSalesTable(sales []model.Sale, medicines []model.Medicine) Table {
	byID := make(map[uuid.UUID]model.Medicine, len(medicines))
	for _, m := range medicines {
		byID[m.ID] = m
	}

	t := Table{
		Headers: []string{"Date", "Medicine", "Quantity", "Total Amount", "Manufacturer"},
	}
	for _, s := range sales {
		name, manufacturer := "Unknown", "Unknown"
		if m, ok := byID[s.MedicineID]; ok {
			name, manufacturer = m.Name, m.Manufacturer
		}
		t.Rows = append(t.Rows, []string{
			s.CreatedAt.Format("2006-01-02"),
			name,
			fmt.Sprintf("%d", s.Quantity),
			"$" + s.TotalAmount.StringFixed(2),
			manufacturer,
		})
	}
	return t
}

// BuildFinancialTable groups sales by date: revenue plus transaction
// count per day, dates ascending.
func BuildFinancialTable(sales []model.Sale) Table {
	type daily struct {
		revenue      decimal.Decimal
		transactions int
	}

	totals := map[string]*daily{}
	for _, s := range sales {
		date := s.CreatedAt.Format("2006-01-02")
		d := totals[date]
		if d == nil {
			d = &daily{revenue: decimal.Zero}
			totals[date] = d
		}
		d.revenue = d.revenue.Add(s.TotalAmount)
		d.transactions++
	}

	dates := make([]string, 0, len(totals))
	for date := range totals {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	t := Table{Headers: []string{"Date", "Revenue", "Transactions"}}
	for _, date := range dates {
		t.Rows = append(t.Rows, []string{
			date,
			"$" + totals[date].revenue.StringFixed(2),
			fmt.Sprintf("%d", totals[date].transactions),
		})
	}
	return t
}

// WriteXLSX renders the table into a single-sheet workbook named Report.
func WriteXLSX(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	if err := writeRow(f, sheet, 1, t.Headers); err != nil {
		return nil, err
	}
	for i, row := range t.Rows {
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV renders the table as UTF-8 CSV with a header row.
func WriteCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Headers); err != nil {
		return nil, err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
