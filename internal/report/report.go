// Package report computes derived views over already-loaded collections.
// Everything here is a pure function; the service layer decides what to
// load and what to cache.
package report

import (
	"sort"
	"time"

	"go-pharmacy-pos/internal/model"

	"github.com/google/uuid"
)

const (
	// DefaultLowStockThreshold flags medicines running out.
	DefaultLowStockThreshold = 100

	// DashboardExpiryWindowDays is the short look-ahead for dashboard
	// alerts. ReportExpiryWindowDays is the long one used by the
	// inventory report. Two different windows for two different views;
	// they are deliberately not unified.
	DashboardExpiryWindowDays = 5
	ReportExpiryWindowDays    = 90

	DefaultTopSellingLimit = 5
)

// LowStock returns medicines with stock strictly below threshold.
// stock == threshold is not flagged.
func LowStock(medicines []model.Medicine, threshold int) []model.Medicine {
	var out []model.Medicine
	for _, m := range medicines {
		if m.IsLowStock(threshold) {
			out = append(out, m)
		}
	}
	return out
}

// ExpiringWithin returns medicines whose expiry date falls strictly
// before now + days.
func ExpiringWithin(medicines []model.Medicine, now time.Time, days int) []model.Medicine {
	var out []model.Medicine
	for _, m := range medicines {
		if m.IsExpiringWithin(now, days) {
			out = append(out, m)
		}
	}
	return out
}

// ExpiringBefore returns medicines expiring on or before the cutoff.
func ExpiringBefore(medicines []model.Medicine, cutoff time.Time) []model.Medicine {
	var out []model.Medicine
	for _, m := range medicines {
		if !m.ExpiryDate.After(cutoff) {
			out = append(out, m)
		}
	}
	return out
}

// TopSelling ranks medicines by cumulative sold quantity, descending,
// truncated to limit. Ties keep catalog order (the medicines slice is
// expected in insertion order), which a stable sort preserves.
func TopSelling(medicines []model.Medicine, sales []model.Sale, limit int) []model.Medicine {
	soldByMedicine := make(map[uuid.UUID]int, len(medicines))
	for _, s := range sales {
		soldByMedicine[s.MedicineID] += s.Quantity
	}

	ranked := make([]model.Medicine, len(medicines))
	copy(ranked, medicines)
	sort.SliceStable(ranked, func(i, j int) bool {
		return soldByMedicine[ranked[i].ID] > soldByMedicine[ranked[j].ID]
	})

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

// SoldQuantities returns cumulative sold quantity per medicine id.
func SoldQuantities(sales []model.Sale) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int)
	for _, s := range sales {
		out[s.MedicineID] += s.Quantity
	}
	return out
}
