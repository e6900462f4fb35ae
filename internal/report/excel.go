package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tynoerm/ACCOUNTING-SYSTEM/domain"
)

type column struct {
	header string
	width  float64
}

var stockColumns = []column{
	{"No.", 5}, {"Date", 15}, {"Supplier Name", 20}, {"Stock Description", 25},
	{"Stock Quantity", 15}, {"Transport Cost", 15}, {"Buying Price", 15},
	{"Selling Price", 15}, {"Received By", 20},
}

var expenseColumns = []column{
	{"No.", 5}, {"Date", 15}, {"Issued To", 20}, {"Description", 30},
	{"Payment Method", 20}, {"Expense Type", 20}, {"Amount", 15},
	{"Authorized By", 20},
}

// StockWorkbook builds the stock report spreadsheet.
func StockWorkbook(items []domain.StockItem) (*bytes.Buffer, error) {
	rows := make([][]any, len(items))
	for i, item := range items {
		rows[i] = []any{
			i + 1,
			orNA(item.Date),
			orNA(item.SupplierName),
			orNA(item.ItemDescription),
			item.Quantity,
			item.TransportCost,
			item.BuyingPrice,
			item.UnitPrice,
			orNA(item.ReceivedBy),
		}
	}
	return workbook("Stock Report", stockColumns, rows)
}

// ExpenseWorkbook builds the expense report spreadsheet.
func ExpenseWorkbook(expenses []domain.Expense) (*bytes.Buffer, error) {
	rows := make([][]any, len(expenses))
	for i, expense := range expenses {
		rows[i] = []any{
			i + 1,
			orNA(expense.Date),
			orNA(expense.IssuedTo),
			orNA(expense.Description),
			orNA(expense.PaymentMethod),
			orNA(expense.ExpenseType),
			fmt.Sprintf("%.2f", expense.Amount),
			orNA(expense.AuthorisedBy),
		}
	}
	return workbook("Expense Report", expenseColumns, rows)
}

func workbook(sheet string, columns []column, rows [][]any) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := make([]any, len(columns))
	for i, col := range columns {
		headers[i] = col.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheet, name, name, col.width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return nil, fmt.Errorf("column name: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	for i := range rows {
		addr := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, addr, &rows[i]); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	return f.WriteToBuffer()
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
