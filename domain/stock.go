package domain

// StockItem is one inventory SKU. ItemDescription doubles as the natural
// lookup key used when sales adjust stock; the match is exact.
type StockItem struct {
	ID              int64   `db:"id" json:"id"`
	ItemDescription string  `db:"item_description" json:"itemDescription"`
	UnitPrice       float64 `db:"unit_price" json:"unitPrice"`
	Quantity        int64   `db:"quantity" json:"quantity"`
	SupplierName    string  `db:"supplier_name" json:"supplierName,omitempty"`
	BuyingPrice     float64 `db:"buying_price" json:"buyingPrice,omitempty"`
	TransportCost   float64 `db:"transport_cost" json:"transportCost,omitempty"`
	ReceivedBy      string  `db:"received_by" json:"receivedBy,omitempty"`
	Date            string  `db:"date" json:"date,omitempty"`
	CreatedAt       string  `db:"created_at" json:"createdAt,omitempty"`
}

// AvailableStockItem is the projection served to the line-item entry UI.
type AvailableStockItem struct {
	ItemDescription string  `db:"item_description" json:"itemDescription"`
	UnitPrice       float64 `db:"unit_price" json:"unitPrice"`
	Quantity        int64   `db:"quantity" json:"quantity"`
}
