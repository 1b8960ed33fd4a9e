package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		first_name VARCHAR(50) NOT NULL,
		last_name VARCHAR(50) NOT NULL,
		email VARCHAR(120) NOT NULL UNIQUE,
		phone VARCHAR(20) NOT NULL DEFAULT '',
		company VARCHAR(100) NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		city VARCHAR(50) NOT NULL DEFAULT '',
		state VARCHAR(2) NOT NULL DEFAULT '',
		zip_code VARCHAR(10) NOT NULL DEFAULT '',
		country VARCHAR(50) NOT NULL DEFAULT 'USA',
		tier VARCHAR(20) NOT NULL DEFAULT 'Standard',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		sku VARCHAR(50) NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		category VARCHAR(50) NOT NULL,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		cost NUMERIC(10,2) NOT NULL DEFAULT 0,
		stock_quantity INT NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		low_stock_threshold INT NOT NULL DEFAULT 10,
		reorder_point INT NOT NULL DEFAULT 20,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		order_number VARCHAR(20) NOT NULL UNIQUE,
		customer_id BIGINT NOT NULL REFERENCES customers(id),
		status VARCHAR(20) NOT NULL DEFAULT 'Pending',
		order_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		shipping_address TEXT NOT NULL DEFAULT '',
		shipping_city VARCHAR(50) NOT NULL DEFAULT '',
		shipping_state VARCHAR(2) NOT NULL DEFAULT '',
		shipping_zip VARCHAR(10) NOT NULL DEFAULT '',
		shipping_country VARCHAR(50) NOT NULL DEFAULT 'USA',
		subtotal NUMERIC(10,2) NOT NULL DEFAULT 0,
		tax_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
		shipping_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
		total_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		shipped_date TIMESTAMPTZ,
		delivered_date TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity INT NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(10,2) NOT NULL,
		line_total NUMERIC(10,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders(customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
}

// Migrate applies the schema. Statements are idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
