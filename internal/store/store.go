package store

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sqlx.DB
}

// NewStore opens the SQLite database at path and ensures the schema exists.
func NewStore(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writes; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id             TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		category       TEXT NOT NULL,
		purchase_price TEXT NOT NULL,
		selling_price  TEXT NOT NULL,
		currency       TEXT NOT NULL,
		quantity       INTEGER NOT NULL,
		sku            TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		weight         TEXT NOT NULL DEFAULT '0',
		dimensions     TEXT NOT NULL DEFAULT '{}',
		product_type   TEXT NOT NULL DEFAULT '',
		attributes     TEXT NOT NULL DEFAULT '{}',
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS orders (
		id               TEXT PRIMARY KEY,
		customer_name    TEXT NOT NULL,
		customer_email   TEXT NOT NULL,
		shipping_address TEXT,
		billing_address  TEXT,
		status           TEXT NOT NULL,
		notes            TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS order_items (
		order_id     TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id   TEXT NOT NULL,
		product_name TEXT NOT NULL,
		unit_price   TEXT NOT NULL,
		currency     TEXT NOT NULL,
		quantity     INTEGER NOT NULL,
		position     INTEGER NOT NULL,
		PRIMARY KEY (order_id, product_id)
	);

	CREATE TABLE IF NOT EXISTS employees (
		id                 TEXT PRIMARY KEY,
		name               TEXT NOT NULL,
		email              TEXT NOT NULL,
		role               TEXT NOT NULL,
		salary             TEXT NOT NULL,
		currency           TEXT NOT NULL,
		hire_date          TEXT NOT NULL,
		phone              TEXT NOT NULL DEFAULT '',
		department         TEXT NOT NULL DEFAULT '',
		manager_id         TEXT NOT NULL DEFAULT '',
		tasks              TEXT NOT NULL DEFAULT '[]',
		performance_rating TEXT NOT NULL DEFAULT '0',
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
	CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_email);
	CREATE INDEX IF NOT EXISTS idx_employees_role ON employees(role);
	`
	_, err := s.db.Exec(schema)
	return err
}
