// internal/repository/postgres/schema.go
package postgres

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id            TEXT PRIMARY KEY,
	case_id       TEXT NOT NULL,
	customer_type TEXT NOT NULL,
	scenario      TEXT NOT NULL,
	product_id    TEXT NOT NULL,
	product_name  TEXT NOT NULL,
	address       JSONB,
	start_date    DATE,
	email         TEXT NOT NULL DEFAULT '',
	phone         TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_orders_case_id ON orders (case_id);

CREATE TABLE IF NOT EXISTS extra_services_selections (
	order_id                TEXT PRIMARY KEY,
	bixia_nara_selected     BOOLEAN NOT NULL DEFAULT FALSE,
	bixia_nara_county       TEXT,
	realtime_meter_selected BOOLEAN NOT NULL DEFAULT FALSE,
	contact_me_services     TEXT[] NOT NULL DEFAULT '{}',
	saved_at                TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate creates the tables when they are missing. Everything runs in one
// transaction so a half-created schema is never left behind.
func (db *DB) Migrate(ctx context.Context) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return tx.Commit(ctx)
}
