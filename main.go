package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/tynoerm/ACCOUNTING-SYSTEM/internal/api"
	"github.com/tynoerm/ACCOUNTING-SYSTEM/internal/config"
	"github.com/tynoerm/ACCOUNTING-SYSTEM/internal/database"
	"github.com/tynoerm/ACCOUNTING-SYSTEM/internal/migrations"
	"github.com/tynoerm/ACCOUNTING-SYSTEM/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	if _, err := os.Stat("assets/opening_stock.csv"); err == nil {
		seed.LoadStock(db, "assets/opening_stock.csv")
	}

	handler := api.New(db, cfg)

	log.Printf("accounting server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
