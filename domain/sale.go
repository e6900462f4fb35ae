package domain

// SaleLineItem is one row of a sale. The description, unit price and total
// are frozen at creation time; later stock or price edits never reinterpret
// a persisted sale.
type SaleLineItem struct {
	ID              int64   `db:"id" json:"-"`
	SaleID          string  `db:"sale_id" json:"-"`
	StockItemID     *int64  `db:"stock_item_id" json:"stockItemId,omitempty"`
	ItemDescription string  `db:"item_description" json:"itemDescription"`
	Quantity        int64   `db:"quantity" json:"quantity"`
	UnitPrice       float64 `db:"unit_price" json:"unitPrice"`
	Vat             float64 `db:"vat" json:"vat"`
	TotalPrice      float64 `db:"total_price" json:"totalPrice"`
	Position        int64   `db:"position" json:"-"`
}

// Sale is the persisted transaction aggregate. It is immutable after
// creation; the only lifecycle operation besides create is delete, which
// restores stock as a side effect.
type Sale struct {
	ID            string         `db:"id" json:"id"`
	InvoiceID     string         `db:"invoice_id" json:"invoiceId"`
	Date          string         `db:"date" json:"date"`
	CashierName   string         `db:"cashier_name" json:"cashierName"`
	CustomerName  *string        `db:"customer_name" json:"customerName,omitempty"`
	PaymentMethod string         `db:"payment_method" json:"paymentMethod"`
	Items         []SaleLineItem `json:"items"`
	Subtotal      float64        `db:"subtotal" json:"subtotal"`
	VatAmount     float64        `db:"vat_amount" json:"vatAmount"`
	GrandTotal    float64        `db:"grand_total" json:"grandTotal"`
	CreatedAt     string         `db:"created_at" json:"createdAt"`
}
