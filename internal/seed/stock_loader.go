package seed

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
)

// LoadStock ingests an opening-stock CSV into the stock_items table. Rows for
// descriptions that already exist are skipped so the loader is safe to run on
// every startup.
//
// Expected columns: item_description, unit_price, quantity, supplier_name,
// buying_price, transport_cost, received_by, date.
func LoadStock(db *sqlx.DB, csvPath string) {
	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load opening stock %s: %v", csvPath, err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Printf("unable to read stock header: %v", err)
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start stock transaction: %v", err)
		return
	}
	stmt, err := tx.Preparex(`INSERT INTO stock_items (item_description, unit_price, quantity, supplier_name, buying_price, transport_cost, received_by, date)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?
		WHERE NOT EXISTS (SELECT 1 FROM stock_items WHERE item_description = ?)`)
	if err != nil {
		log.Printf("unable to prepare stock insert: %v", err)
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read stock row: %v", err)
			continue
		}
		if len(record) < 8 {
			continue
		}
		description := strings.TrimSpace(record[0])
		if description == "" {
			continue
		}

		if _, err := stmt.Exec(description, record[1], record[2], strings.TrimSpace(record[3]),
			record[4], record[5], strings.TrimSpace(record[6]), strings.TrimSpace(record[7]),
			description); err != nil {
			log.Printf("unable to insert stock item %s: %v", description, err)
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit stock seed: %v", err)
	} else {
		log.Printf("seeded opening stock with %d rows", rows)
	}
}
