// repository/db.go
package repository

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

var db *sql.DB

// InitDB initializes the database connection and bootstraps the schema
func InitDB() error {
	// Get database connection details from environment variables
	host := getEnvOrDefault("DB_HOST", "localhost")
	port := getEnvOrDefault("DB_PORT", "5432")
	user := getEnvOrDefault("DB_USER", "postgres")
	password := getEnvOrDefault("DB_PASSWORD", "postgres")
	dbname := getEnvOrDefault("DB_NAME", "roomstay")

	// Create connection string
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// Connect to database
	var err error
	db, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %v", err)
	}

	// Test the connection
	err = db.Ping()
	if err != nil {
		return fmt.Errorf("failed to ping database: %v", err)
	}

	if err := createTables(db); err != nil {
		return fmt.Errorf("failed to create tables: %v", err)
	}

	log.Println("Successfully connected to the database")
	return nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS properties (
			id BIGSERIAL PRIMARY KEY,
			host_id BIGINT NOT NULL,
			title TEXT NOT NULL,
			price_per_night BIGINT NOT NULL,
			currency TEXT NOT NULL DEFAULT 'XAF',
			max_guests INT NOT NULL DEFAULT 1,
			is_available BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGSERIAL PRIMARY KEY,
			property_id BIGINT NOT NULL REFERENCES properties(id),
			guest_id BIGINT NOT NULL,
			check_in DATE NOT NULL,
			check_out DATE NOT NULL,
			guests INT NOT NULL,
			base_amount BIGINT NOT NULL,
			guest_fee BIGINT NOT NULL DEFAULT 0,
			host_fee BIGINT NOT NULL DEFAULT 0,
			total_price BIGINT NOT NULL,
			net_amount BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			payment_status TEXT NOT NULL DEFAULT 'pending',
			payment_reference TEXT NOT NULL DEFAULT '',
			transaction_id TEXT NOT NULL DEFAULT '',
			status_reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (check_out > check_in)
		)`,
		`CREATE TABLE IF NOT EXISTS fee_configs (
			id BIGSERIAL PRIMARY KEY,
			host_fee_percent DOUBLE PRECISION NOT NULL,
			guest_fee_percent DOUBLE PRECISION NOT NULL,
			host_fee_min BIGINT,
			host_fee_max BIGINT,
			guest_fee_min BIGINT,
			guest_fee_max BIGINT,
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS payment_configs (
			id BIGSERIAL PRIMARY KEY,
			service_type TEXT NOT NULL,
			environment TEXT NOT NULL,
			base_url TEXT NOT NULL,
			api_user TEXT NOT NULL,
			api_key TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS wallets (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL UNIQUE,
			balance BIGINT NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT 'XAF',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			wallet_id BIGINT NOT NULL REFERENCES wallets(id),
			user_id BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			reference TEXT NOT NULL DEFAULT '',
			booking_id BIGINT,
			description TEXT NOT NULL DEFAULT '',
			external_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS payout_requests (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			phone_number TEXT NOT NULL,
			transaction_id BIGINT,
			provider_trans_id TEXT NOT NULL DEFAULT '',
			status_reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_property_dates ON bookings(property_id, check_in, check_out)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_guest_id ON bookings(guest_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_wallet_id ON transactions(wallet_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_reference ON transactions(reference)`,
		`CREATE INDEX IF NOT EXISTS idx_payout_requests_user_status ON payout_requests(user_id, status)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_fee_configs_active ON fee_configs(is_active) WHERE is_active`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_configs_active ON payment_configs(service_type, environment) WHERE is_active`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %v", query, err)
		}
	}
	return nil
}

// CloseDB closes the database connection
func CloseDB() {
	if db != nil {
		db.Close()
	}
}

// GetDB returns the database instance
func GetDB() *sql.DB {
	return db
}

// Helper function to get environment variable with default value
func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
