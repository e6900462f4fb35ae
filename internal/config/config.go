package config

import (
	"log"
	"os"
	"strconv"
)

// Company is the letterhead block printed on every invoice.
type Company struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// Config holds application configuration values.
type Config struct {
	Secret      string
	DatabaseDSN string
	HTTPPort    string
	Company     Company
	LogoPath    string
	// StrictStock rejects a sale when a tracked line exceeds available
	// quantity instead of clamping the ledger at zero.
	StrictStock bool
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = "dev_secret"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "3001"
	}
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 3001", port)
		port = "3001"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "accounting.db"
	}

	logoPath := os.Getenv("LOGO_PATH")
	if logoPath == "" {
		logoPath = "assets/hino_logo.jpg"
	}

	strictStock := false
	if v := os.Getenv("STRICT_STOCK"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid STRICT_STOCK value %q, defaulting to false", v)
		} else {
			strictStock = parsed
		}
	}

	return Config{
		Secret:      secret,
		DatabaseDSN: dsn,
		HTTPPort:    port,
		Company: Company{
			Name:    envOr("COMPANY_NAME", "Tinphil Investments"),
			Address: envOr("COMPANY_ADDRESS", "12 Mutley Bend Harare, Zimbabwe"),
			Phone:   envOr("COMPANY_PHONE", "+263 774 742 212"),
			Email:   envOr("COMPANY_EMAIL", "tinphilinvestment@gmail.com"),
		},
		LogoPath:    logoPath,
		StrictStock: strictStock,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
