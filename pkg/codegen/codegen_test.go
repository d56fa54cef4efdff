package codegen

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarcodeFormat(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)

	code := Barcode(now)

	require.Len(t, code, 13)
	assert.Regexp(t, regexp.MustCompile(`^\d{13}$`), code)
	assert.Equal(t, "260831", code[:6], "prefix encodes entry date as YYMMDD")
}

func TestInvoiceNumberFormat(t *testing.T) {
	now := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	invoice := InvoiceNumber(now)

	assert.Regexp(t, regexp.MustCompile(`^INV-202601-\d{4}$`), invoice)
}
