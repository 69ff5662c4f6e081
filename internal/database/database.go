package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq" // PostgreSQL driver
)

var DB *sql.DB

// defaultSchema bootstraps the two tables on a fresh database. There is no
// migration system; statements must stay idempotent.
const defaultSchema = `
CREATE TABLE IF NOT EXISTS clients (
    id          BIGSERIAL PRIMARY KEY,
    first_name  TEXT NOT NULL,
    middle_name TEXT,
    last_name   TEXT NOT NULL,
    email       TEXT,
    phone       TEXT,
    address     TEXT,
    is_active   BOOLEAN NOT NULL DEFAULT TRUE,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_clients_is_active ON clients (is_active);

CREATE TABLE IF NOT EXISTS deals (
    id             BIGSERIAL PRIMARY KEY,
    client_id      BIGINT NOT NULL REFERENCES clients (id),
    category       TEXT NOT NULL,
    status         TEXT NOT NULL DEFAULT 'open',
    payment_status TEXT NOT NULL DEFAULT 'unpaid',
    amount_gross   DOUBLE PRECISION NOT NULL,
    discount       DOUBLE PRECISION NOT NULL DEFAULT 0,
    tax_rate       DOUBLE PRECISION NOT NULL DEFAULT 0,
    tax_amount     DOUBLE PRECISION NOT NULL DEFAULT 0,
    amount_net     DOUBLE PRECISION NOT NULL DEFAULT 0,
    currency       TEXT NOT NULL DEFAULT 'KGS',
    paid_amount    DOUBLE PRECISION,
    payment_method TEXT,
    invoice_number TEXT,
    invoice_date   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    due_date       TIMESTAMPTZ,
    paid_date      TIMESTAMPTZ,
    notes          TEXT,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_deals_client_id ON deals (client_id);
CREATE INDEX IF NOT EXISTS idx_deals_status ON deals (status);
CREATE INDEX IF NOT EXISTS idx_deals_payment_status ON deals (payment_status);
`

// InitDB initializes the database connection and applies the bootstrap schema.
func InitDB(connStr, dbSchemaPath string) {
	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Error opening database: %q", err)
	}

	err = DB.Ping()
	if err != nil {
		log.Fatalf("Error connecting to database: %q", err)
	}

	err = applySchema(DB, dbSchemaPath)
	if err != nil {
		log.Fatalf("Error applying database schema: %q", err)
	}
}

// applySchema executes the schema file at schemaPath, or the embedded
// default when no path is given.
func applySchema(db *sql.DB, schemaPath string) error {
	schema := defaultSchema
	if schemaPath != "" {
		content, err := os.ReadFile(schemaPath)
		if err != nil {
			return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
		}
		schema = string(content)
	}

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	return nil
}

// GetDB returns the database connection pool
func GetDB() *sql.DB {
	return DB
}
