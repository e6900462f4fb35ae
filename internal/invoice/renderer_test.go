package invoice

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tynoerm/ACCOUNTING-SYSTEM/domain"
	"github.com/tynoerm/ACCOUNTING-SYSTEM/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		Company: config.Company{
			Name:    "Tinphil Investments",
			Address: "12 Mutley Bend Harare, Zimbabwe",
			Phone:   "+263 774 742 212",
			Email:   "tinphilinvestment@gmail.com",
		},
		LogoPath: "no-such-logo.jpg",
	}
}

func sampleSale(lineCount int) *domain.Sale {
	sale := &domain.Sale{
		ID:            "7f9b2c6e-0000-0000-0000-000000000001",
		InvoiceID:     "INV007",
		Date:          "2024-03-15",
		CashierName:   "Tino",
		PaymentMethod: "Cash",
		CreatedAt:     "2024-03-15 09:30:00",
	}
	for i := 0; i < lineCount; i++ {
		total := float64(2) * 9.99
		sale.Items = append(sale.Items, domain.SaleLineItem{
			ItemDescription: fmt.Sprintf("Item %03d", i+1),
			Quantity:        2,
			UnitPrice:       9.99,
			Vat:             15,
			TotalPrice:      total,
		})
		sale.Subtotal += total
		sale.VatAmount += total * 15 / 100
	}
	sale.GrandTotal = sale.Subtotal + sale.VatAmount
	return sale
}

func pageCount(data []byte) int {
	return bytes.Count(data, []byte("/Type /Page")) - bytes.Count(data, []byte("/Type /Pages"))
}

func TestRenderIsIdempotent(t *testing.T) {
	r := NewRenderer(testConfig())
	sale := sampleSale(3)

	first, err := r.Render(sale)
	require.NoError(t, err)
	second, err := r.Render(sale)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second), "same sale must render byte-identical documents")
}

func TestRenderIsIdempotentAcrossClockTicks(t *testing.T) {
	r := NewRenderer(testConfig())
	sale := sampleSale(3)

	first, err := r.Render(sale)
	require.NoError(t, err)

	// Crossing a wall-clock second must not leak into the document bytes.
	time.Sleep(1100 * time.Millisecond)

	second, err := r.Render(sale)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "render output must not depend on the wall clock")
}

func TestRenderBufferAndStreamMatch(t *testing.T) {
	r := NewRenderer(testConfig())
	sale := sampleSale(5)

	buffered, err := r.Render(sale)
	require.NoError(t, err)

	var streamed bytes.Buffer
	require.NoError(t, r.RenderTo(&streamed, sale))

	assert.True(t, bytes.Equal(buffered, streamed.Bytes()),
		"buffer and streaming modes must produce identical documents")
}

func TestRenderProducesPDF(t *testing.T) {
	r := NewRenderer(testConfig())
	out, err := r.Render(sampleSale(1))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, 1, pageCount(out))
}

func TestRenderPaginatesLongSales(t *testing.T) {
	r := NewRenderer(testConfig())

	out, err := r.Render(sampleSale(60))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pageCount(out), 2,
		"a sale overflowing the usable page height must span multiple pages")
}

func TestRenderWalkInCustomer(t *testing.T) {
	r := NewRenderer(testConfig())

	walkIn := sampleSale(2)
	named := sampleSale(2)
	customer := "Acme Ltd"
	named.CustomerName = &customer

	a, err := r.Render(walkIn)
	require.NoError(t, err)
	b, err := r.Render(named)
	require.NoError(t, err)

	assert.False(t, bytes.Equal(a, b), "customer name must appear in the document")
}

func TestRenderSurvivesCorruptLogo(t *testing.T) {
	dir := t.TempDir()
	logoPath := filepath.Join(dir, "logo.jpg")
	require.NoError(t, os.WriteFile(logoPath, []byte("not an image at all"), 0o644))

	cfg := testConfig()
	cfg.LogoPath = logoPath
	r := NewRenderer(cfg)

	out, err := r.Render(sampleSale(1))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderTotalsUseStoredAmounts(t *testing.T) {
	r := NewRenderer(testConfig())
	sale := sampleSale(4)

	var subtotal, vatAmount float64
	for _, item := range sale.Items {
		subtotal += item.TotalPrice
		vatAmount += item.TotalPrice * item.Vat / 100
	}
	assert.InDelta(t, subtotal, sale.Subtotal, 0.01)
	assert.InDelta(t, vatAmount, sale.VatAmount, 0.01)
	assert.InDelta(t, sale.Subtotal+sale.VatAmount, sale.GrandTotal, 0.01)

	_, err := r.Render(sale)
	require.NoError(t, err)
}
