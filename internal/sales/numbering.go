package sales

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// nextInvoiceID allocates the next human-readable invoice identifier. The
// counter row is bumped atomically inside the caller's transaction, so two
// concurrent sales can never be handed the same number. The counter is seeded
// from existing sales at migration time (see internal/migrations).
//
// Identifiers are zero-padded to three digits and widen naturally once the
// sequence passes 999 (INV999, INV1000, ...).
func nextInvoiceID(ctx context.Context, tx *sqlx.Tx) (string, error) {
	var n int64
	err := tx.GetContext(ctx, &n,
		`INSERT INTO invoice_counters (name, value) VALUES ('invoice', 1)
		 ON CONFLICT(name) DO UPDATE SET value = value + 1
		 RETURNING value`)
	if err != nil {
		return "", fmt.Errorf("allocate invoice number: %w", err)
	}
	return formatInvoiceID(n), nil
}

func formatInvoiceID(n int64) string {
	return fmt.Sprintf("INV%03d", n)
}
