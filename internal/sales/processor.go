package sales

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tynoerm/ACCOUNTING-SYSTEM/domain"
)

// ErrSaleNotFound is returned when a referenced sale does not exist.
var ErrSaleNotFound = errors.New("sale not found")

// ValidationError reports a malformed sale request. It is always raised
// before any stock mutation happens.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// LineItemRequest is one incoming sale row.
type LineItemRequest struct {
	ItemDescription string  `json:"itemDescription"`
	Quantity        int64   `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	Vat             float64 `json:"vat"`
}

// CreateSaleRequest is the validated input shape for a new sale.
type CreateSaleRequest struct {
	Date          string            `json:"date"`
	CashierName   string            `json:"cashierName"`
	CustomerName  string            `json:"customerName"`
	PaymentMethod string            `json:"paymentMethod"`
	Items         []LineItemRequest `json:"items"`
}

// Processor orchestrates the stock-aware sale workflow: validation, stock
// deduction, invoice numbering, persistence and compensating restoration on
// delete. All mutations for one call share a single transaction, so a late
// failure never leaves stock half-deducted.
type Processor struct {
	db     *sqlx.DB
	strict bool
}

// NewProcessor constructs a Processor. With strictStock set, sales that
// exceed available quantity of a tracked item are rejected instead of
// clamping the ledger at zero.
func NewProcessor(db *sqlx.DB, strictStock bool) *Processor {
	return &Processor{db: db, strict: strictStock}
}

func (p *Processor) validate(req *CreateSaleRequest) error {
	date, err := normalizeDate(req.Date)
	if err != nil {
		return err
	}
	req.Date = date
	if strings.TrimSpace(req.CashierName) == "" {
		return invalid("cashierName is required")
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return invalid("paymentMethod is required")
	}
	if len(req.Items) == 0 {
		return invalid("no items provided for sale")
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.ItemDescription) == "" {
			return invalid("item %d: itemDescription is required", i+1)
		}
		if item.Quantity <= 0 {
			return invalid("item %d: quantity must be greater than zero", i+1)
		}
		if item.UnitPrice < 0 {
			return invalid("item %d: unitPrice must not be negative", i+1)
		}
		if item.Vat < 0 || item.Vat > 100 {
			return invalid("item %d: vat must be between 0 and 100", i+1)
		}
	}
	return nil
}

// CreateSale validates the request, deducts stock per line item in input
// order, allocates the next invoice identifier and persists the sale. Line
// items whose description matches no stock item are sold as untracked
// service items and skip deduction.
func (p *Processor) CreateSale(ctx context.Context, req CreateSaleRequest) (*domain.Sale, error) {
	if err := p.validate(&req); err != nil {
		return nil, err
	}

	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin sale transaction: %w", err)
	}
	defer tx.Rollback()

	if p.strict {
		// Lines may repeat an item, so compare the summed request per
		// description against what is on hand.
		requested := make(map[string]int64, len(req.Items))
		for _, item := range req.Items {
			requested[item.ItemDescription] += item.Quantity
		}
		for _, item := range req.Items {
			total, pending := requested[item.ItemDescription]
			if !pending {
				continue
			}
			delete(requested, item.ItemDescription)

			var available int64
			err := tx.GetContext(ctx, &available,
				`SELECT quantity FROM stock_items WHERE item_description = ? LIMIT 1`,
				item.ItemDescription)
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("check stock for %q: %w", item.ItemDescription, err)
			}
			if available < total {
				return nil, invalid("insufficient stock for %q: %d available, %d requested",
					item.ItemDescription, available, total)
			}
		}
	}

	// Deduct stock in input order. The single UPDATE both decrements and
	// clamps at zero, so concurrent sales on the same item cannot lose an
	// update or drive the quantity negative.
	matchedStockIDs := make([]*int64, len(req.Items))
	for i, item := range req.Items {
		var stockID int64
		err := tx.GetContext(ctx, &stockID,
			`SELECT id FROM stock_items WHERE item_description = ? LIMIT 1`,
			item.ItemDescription)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("look up stock for %q: %w", item.ItemDescription, err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE stock_items SET quantity = MAX(0, quantity - ?) WHERE id = ?`,
			item.Quantity, stockID); err != nil {
			return nil, fmt.Errorf("deduct stock for %q: %w", item.ItemDescription, err)
		}
		id := stockID
		matchedStockIDs[i] = &id
	}

	invoiceID, err := nextInvoiceID(ctx, tx)
	if err != nil {
		return nil, err
	}

	sale := &domain.Sale{
		ID:            uuid.NewString(),
		InvoiceID:     invoiceID,
		Date:          req.Date,
		CashierName:   req.CashierName,
		PaymentMethod: req.PaymentMethod,
	}
	if name := strings.TrimSpace(req.CustomerName); name != "" {
		sale.CustomerName = &name
	}
	for i, item := range req.Items {
		line := domain.SaleLineItem{
			SaleID:          sale.ID,
			StockItemID:     matchedStockIDs[i],
			ItemDescription: item.ItemDescription,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			Vat:             item.Vat,
			TotalPrice:      float64(item.Quantity) * item.UnitPrice,
			Position:        int64(i),
		}
		sale.Subtotal += line.TotalPrice
		sale.VatAmount += line.TotalPrice * line.Vat / 100
		sale.Items = append(sale.Items, line)
	}
	sale.GrandTotal = sale.Subtotal + sale.VatAmount

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sales (id, invoice_id, date, cashier_name, customer_name, payment_method, subtotal, vat_amount, grand_total)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sale.ID, sale.InvoiceID, sale.Date, sale.CashierName, sale.CustomerName,
		sale.PaymentMethod, sale.Subtotal, sale.VatAmount, sale.GrandTotal); err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}
	for _, line := range sale.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sale_items (sale_id, stock_item_id, item_description, quantity, unit_price, vat, total_price, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			line.SaleID, line.StockItemID, line.ItemDescription, line.Quantity,
			line.UnitPrice, line.Vat, line.TotalPrice, line.Position); err != nil {
			return nil, fmt.Errorf("insert sale item: %w", err)
		}
	}
	if err := tx.GetContext(ctx, &sale.CreatedAt,
		`SELECT created_at FROM sales WHERE id = ?`, sale.ID); err != nil {
		return nil, fmt.Errorf("read sale timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit sale: %w", err)
	}
	return sale, nil
}

// DeleteSale restores stock for every line item of the located sale and then
// removes the record. Restoration mirrors deduction's skip policy: lines that
// no longer match a stock item are skipped silently, so deletion never
// introduces stock for items that were never tracked.
func (p *Processor) DeleteSale(ctx context.Context, id string) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer tx.Rollback()

	var saleID string
	err = tx.GetContext(ctx, &saleID, `SELECT id FROM sales WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSaleNotFound
	}
	if err != nil {
		return fmt.Errorf("load sale: %w", err)
	}

	var items []domain.SaleLineItem
	if err := tx.SelectContext(ctx, &items,
		`SELECT id, sale_id, stock_item_id, item_description, quantity, unit_price, vat, total_price, position
		 FROM sale_items WHERE sale_id = ? ORDER BY position`, saleID); err != nil {
		return fmt.Errorf("load sale items: %w", err)
	}

	for _, item := range items {
		if item.StockItemID != nil {
			res, err := tx.ExecContext(ctx,
				`UPDATE stock_items SET quantity = quantity + ? WHERE id = ?`,
				item.Quantity, *item.StockItemID)
			if err != nil {
				return fmt.Errorf("restore stock for %q: %w", item.ItemDescription, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				continue
			}
			// Referenced stock row is gone; fall through to the
			// description match used for legacy lines.
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE stock_items SET quantity = quantity + ?
			 WHERE id = (SELECT id FROM stock_items WHERE item_description = ? LIMIT 1)`,
			item.Quantity, item.ItemDescription); err != nil {
			return fmt.Errorf("restore stock for %q: %w", item.ItemDescription, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_items WHERE sale_id = ?`, saleID); err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, saleID); err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	return tx.Commit()
}

// GetSale loads one sale with its line items in display order.
func (p *Processor) GetSale(ctx context.Context, id string) (*domain.Sale, error) {
	var sale domain.Sale
	err := p.db.GetContext(ctx, &sale,
		`SELECT id, invoice_id, date, cashier_name, customer_name, payment_method, subtotal, vat_amount, grand_total, created_at
		 FROM sales WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load sale: %w", err)
	}
	if err := p.db.SelectContext(ctx, &sale.Items,
		`SELECT id, sale_id, stock_item_id, item_description, quantity, unit_price, vat, total_price, position
		 FROM sale_items WHERE sale_id = ? ORDER BY position`, id); err != nil {
		return nil, fmt.Errorf("load sale items: %w", err)
	}
	return &sale, nil
}

// ListSales returns every sale ordered by transaction date descending, with
// line items attached.
func (p *Processor) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var sales []domain.Sale
	if err := p.db.SelectContext(ctx, &sales,
		`SELECT id, invoice_id, date, cashier_name, customer_name, payment_method, subtotal, vat_amount, grand_total, created_at
		 FROM sales ORDER BY date DESC, created_at DESC`); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if len(sales) == 0 {
		return []domain.Sale{}, nil
	}

	ids := make([]string, len(sales))
	for i, sale := range sales {
		ids[i] = sale.ID
	}
	query, args, err := sqlx.In(
		`SELECT id, sale_id, stock_item_id, item_description, quantity, unit_price, vat, total_price, position
		 FROM sale_items WHERE sale_id IN (?) ORDER BY position`, ids)
	if err != nil {
		return nil, fmt.Errorf("prepare sale items query: %w", err)
	}
	query = p.db.Rebind(query)

	var rows []domain.SaleLineItem
	if err := p.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("load sale items: %w", err)
	}
	itemsBySale := make(map[string][]domain.SaleLineItem)
	for _, row := range rows {
		itemsBySale[row.SaleID] = append(itemsBySale[row.SaleID], row)
	}
	for i := range sales {
		items := itemsBySale[sales[i].ID]
		if items == nil {
			items = []domain.SaleLineItem{}
		}
		sales[i].Items = items
	}
	return sales, nil
}

// AvailableStock lists stock items with quantity on hand, the projection the
// line-item entry form is populated from.
func (p *Processor) AvailableStock(ctx context.Context) ([]domain.AvailableStockItem, error) {
	var items []domain.AvailableStockItem
	if err := p.db.SelectContext(ctx, &items,
		`SELECT item_description, unit_price, quantity FROM stock_items
		 WHERE quantity > 0 ORDER BY item_description`); err != nil {
		return nil, fmt.Errorf("list available stock: %w", err)
	}
	if items == nil {
		items = []domain.AvailableStockItem{}
	}
	return items, nil
}

func normalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalid("date is required")
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", invalid("date must be in YYYY-MM-DD format")
}
