// Package codegen generates barcodes and invoice numbers at entry time.
package codegen

import (
	"fmt"
	"math/rand"
	"time"
)

// Barcode produces 13 ASCII digits: YYMMDD, a 4-digit random block and
// a 3-digit suffix derived from the clock. Not globally unique; the
// catalog's unique index is the backstop, and a collision surfaces as a
// rejected insert.
func Barcode(now time.Time) string {
	datePart := now.Format("060102")
	random := rand.Intn(10000)
	suffix := now.UnixMilli() % 1000
	return fmt.Sprintf("%s%04d%03d", datePart, random, suffix)
}

// InvoiceNumber produces INV-<yyyymm>-<4-digit random>. The codebase
// uses this single generator everywhere; uniqueness is enforced by the
// purchases table's index.
func InvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%s-%04d", now.Format("200601"), rand.Intn(10000))
}
