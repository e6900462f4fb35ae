package migrations

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema required for the accounting backend.
func Run(db *sqlx.DB) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name TEXT NOT NULL,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			storename TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS stock_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_description TEXT NOT NULL,
			unit_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
			supplier_name TEXT NOT NULL DEFAULT '',
			buying_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			transport_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			received_by TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_stock_items_description ON stock_items (item_description);`,
		`CREATE TABLE IF NOT EXISTS sales (
			id TEXT PRIMARY KEY,
			invoice_id TEXT NOT NULL UNIQUE,
			date TEXT NOT NULL,
			cashier_name TEXT NOT NULL,
			customer_name TEXT,
			payment_method TEXT NOT NULL,
			subtotal DOUBLE PRECISION NOT NULL,
			vat_amount DOUBLE PRECISION NOT NULL,
			grand_total DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS sale_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sale_id TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
			stock_item_id INTEGER REFERENCES stock_items(id),
			item_description TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			unit_price DOUBLE PRECISION NOT NULL,
			vat DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_price DOUBLE PRECISION NOT NULL,
			position INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS expenses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			issued_to TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			payment_method TEXT NOT NULL DEFAULT '',
			expense_type TEXT NOT NULL DEFAULT '',
			amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			authorised_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS invoice_counters (
			name TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		);`,
		// Seed the allocator from whatever sequence an existing database
		// reached, so migrated data keeps numbering where it left off. The
		// aggregate SELECT always yields a row, so OR IGNORE keeps re-runs
		// from colliding with an already seeded counter.
		`INSERT OR IGNORE INTO invoice_counters (name, value)
			SELECT 'invoice', COALESCE(MAX(CAST(SUBSTR(invoice_id, 4) AS INTEGER)), 0) FROM sales;`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}
}
