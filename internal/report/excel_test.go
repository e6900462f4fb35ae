package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tynoerm/ACCOUNTING-SYSTEM/domain"
)

func TestStockWorkbook(t *testing.T) {
	items := []domain.StockItem{
		{
			ItemDescription: "Widget",
			UnitPrice:       12.5,
			Quantity:        40,
			SupplierName:    "Acme Supplies",
			BuyingPrice:     8,
			TransportCost:   1.5,
			ReceivedBy:      "Tino",
			Date:            "2024-03-15",
		},
		{ItemDescription: "Gadget", Quantity: 3},
	}

	buf, err := StockWorkbook(items)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := "Stock Report"
	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "No.", get("A1"))
	assert.Equal(t, "Supplier Name", get("C1"))
	assert.Equal(t, "Received By", get("I1"))

	assert.Equal(t, "1", get("A2"))
	assert.Equal(t, "2024-03-15", get("B2"))
	assert.Equal(t, "Widget", get("D2"))
	assert.Equal(t, "40", get("E2"))

	// Missing fields fall back to N/A.
	assert.Equal(t, "N/A", get("B3"))
	assert.Equal(t, "N/A", get("C3"))
	assert.Equal(t, "N/A", get("I3"))
}

func TestExpenseWorkbook(t *testing.T) {
	expenses := []domain.Expense{
		{
			Date:          "2024-03-01",
			IssuedTo:      "ZESA",
			Description:   "Electricity token",
			PaymentMethod: "Ecocash",
			ExpenseType:   "Utilities",
			Amount:        125.5,
			AuthorisedBy:  "Phil",
		},
	}

	buf, err := ExpenseWorkbook(expenses)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := "Expense Report"
	get := func(cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Amount", get("G1"))
	assert.Equal(t, "ZESA", get("C2"))
	assert.Equal(t, "125.50", get("G2"))
	assert.Equal(t, "Phil", get("H2"))
}

func TestWorkbookEmptyRows(t *testing.T) {
	buf, err := ExpenseWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Expense Report")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
