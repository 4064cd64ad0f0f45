package postgres

import (
	"context"
	"fmt"

	"ledgerpos/pkg/logger"
)

// schema creates every table the engine uses. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id            UUID PRIMARY KEY,
		tenant_id     UUID NOT NULL,
		name          TEXT NOT NULL,
		sku           TEXT NOT NULL DEFAULT '',
		quantity      NUMERIC(18,4) NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		cost_price    NUMERIC(18,2) NOT NULL DEFAULT 0,
		selling_price NUMERIC(18,2) NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_items_tenant ON items (tenant_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_items_sku ON items (tenant_id, sku) WHERE sku <> ''`,

	`CREATE TABLE IF NOT EXISTS customers (
		id         UUID PRIMARY KEY,
		tenant_id  UUID NOT NULL,
		name       TEXT NOT NULL,
		phone      TEXT,
		email      TEXT,
		balance    NUMERIC(18,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_customers_tenant ON customers (tenant_id)`,
	`CREATE TABLE IF NOT EXISTS suppliers (LIKE customers INCLUDING ALL)`,

	`CREATE TABLE IF NOT EXISTS sales (
		id             UUID PRIMARY KEY,
		tenant_id      UUID NOT NULL,
		number         TEXT NOT NULL,
		customer_id    UUID REFERENCES customers (id),
		total_amount   NUMERIC(18,2) NOT NULL,
		paid_amount    NUMERIC(18,2) NOT NULL,
		payment_type   TEXT NOT NULL,
		payment_method TEXT NOT NULL DEFAULT 'CASH',
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL,
		created_by     TEXT NOT NULL DEFAULT '',
		updated_by     TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS ix_sales_tenant_created ON sales (tenant_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS sale_lines (
		sale_id  UUID NOT NULL REFERENCES sales (id) ON DELETE CASCADE,
		line_no  INT NOT NULL,
		item_id  UUID NOT NULL REFERENCES items (id),
		quantity NUMERIC(18,4) NOT NULL,
		price    NUMERIC(18,2) NOT NULL,
		amount   NUMERIC(18,2) NOT NULL,
		PRIMARY KEY (sale_id, line_no)
	)`,

	`CREATE TABLE IF NOT EXISTS purchase_orders (
		id           UUID PRIMARY KEY,
		tenant_id    UUID NOT NULL,
		number       TEXT NOT NULL,
		supplier_id  UUID REFERENCES suppliers (id),
		status       TEXT NOT NULL,
		total_amount NUMERIC(18,2) NOT NULL,
		note         TEXT NOT NULL DEFAULT '',
		purchase_id  UUID,
		received_at  TIMESTAMPTZ,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL,
		created_by   TEXT NOT NULL DEFAULT '',
		updated_by   TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS purchase_order_lines (
		order_id   UUID NOT NULL REFERENCES purchase_orders (id) ON DELETE CASCADE,
		line_no    INT NOT NULL,
		item_id    UUID NOT NULL REFERENCES items (id),
		quantity   NUMERIC(18,4) NOT NULL,
		cost_price NUMERIC(18,2) NOT NULL,
		amount     NUMERIC(18,2) NOT NULL,
		PRIMARY KEY (order_id, line_no)
	)`,

	`CREATE TABLE IF NOT EXISTS purchases (
		id                UUID PRIMARY KEY,
		tenant_id         UUID NOT NULL,
		number            TEXT NOT NULL,
		supplier_id       UUID REFERENCES suppliers (id),
		purchase_order_id UUID REFERENCES purchase_orders (id),
		total_amount      NUMERIC(18,2) NOT NULL,
		paid_amount       NUMERIC(18,2) NOT NULL,
		payment_type      TEXT NOT NULL,
		payment_method    TEXT NOT NULL DEFAULT 'CASH',
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL,
		created_by        TEXT NOT NULL DEFAULT '',
		updated_by        TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS ix_purchases_tenant_created ON purchases (tenant_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS purchase_lines (
		purchase_id UUID NOT NULL REFERENCES purchases (id) ON DELETE CASCADE,
		line_no     INT NOT NULL,
		item_id     UUID NOT NULL REFERENCES items (id),
		quantity    NUMERIC(18,4) NOT NULL,
		cost_price  NUMERIC(18,2) NOT NULL,
		amount      NUMERIC(18,2) NOT NULL,
		PRIMARY KEY (purchase_id, line_no)
	)`,

	`CREATE TABLE IF NOT EXISTS customer_payments (
		id              UUID PRIMARY KEY,
		tenant_id       UUID NOT NULL,
		counterparty_id UUID NOT NULL REFERENCES customers (id),
		amount          NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		applied         NUMERIC(18,2) NOT NULL,
		method          TEXT NOT NULL,
		note            TEXT NOT NULL DEFAULT '',
		created_by      TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_customer_payments_tenant_created ON customer_payments (tenant_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS supplier_payments (
		id              UUID PRIMARY KEY,
		tenant_id       UUID NOT NULL,
		counterparty_id UUID NOT NULL REFERENCES suppliers (id),
		amount          NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		applied         NUMERIC(18,2) NOT NULL,
		method          TEXT NOT NULL,
		note            TEXT NOT NULL DEFAULT '',
		created_by      TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS customer_returns (
		id              UUID PRIMARY KEY,
		tenant_id       UUID NOT NULL,
		document_id     UUID NOT NULL REFERENCES sales (id),
		counterparty_id UUID REFERENCES customers (id),
		item_id         UUID NOT NULL REFERENCES items (id),
		quantity        NUMERIC(18,4) NOT NULL,
		type            TEXT NOT NULL,
		amount          NUMERIC(18,2) NOT NULL,
		applied         NUMERIC(18,2) NOT NULL,
		reason          TEXT NOT NULL DEFAULT '',
		created_by      TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_customer_returns_document ON customer_returns (tenant_id, document_id)`,
	`CREATE TABLE IF NOT EXISTS supplier_returns (
		id              UUID PRIMARY KEY,
		tenant_id       UUID NOT NULL,
		document_id     UUID NOT NULL REFERENCES purchases (id),
		counterparty_id UUID REFERENCES suppliers (id),
		item_id         UUID NOT NULL REFERENCES items (id),
		quantity        NUMERIC(18,4) NOT NULL,
		type            TEXT NOT NULL,
		amount          NUMERIC(18,2) NOT NULL,
		applied         NUMERIC(18,2) NOT NULL,
		reason          TEXT NOT NULL DEFAULT '',
		created_by      TEXT NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_supplier_returns_document ON supplier_returns (tenant_id, document_id)`,

	`CREATE TABLE IF NOT EXISTS cash_registers (
		id            UUID PRIMARY KEY,
		tenant_id     UUID NOT NULL,
		user_id       TEXT NOT NULL,
		status        TEXT NOT NULL,
		opening_float NUMERIC(18,2) NOT NULL,
		closing_count NUMERIC(18,2),
		expected_cash NUMERIC(18,2),
		variance      NUMERIC(18,2),
		note          TEXT,
		opened_at     TIMESTAMPTZ NOT NULL,
		closed_at     TIMESTAMPTZ
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ` + ConstraintOpenShift + ` ON cash_registers (tenant_id, user_id) WHERE status = 'OPEN'`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id         UUID PRIMARY KEY,
		tenant_id  UUID NOT NULL,
		user_id    TEXT NOT NULL,
		amount     NUMERIC(18,2) NOT NULL CHECK (amount > 0),
		category   TEXT NOT NULL,
		note       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_expenses_tenant_created ON expenses (tenant_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS sys_sequences (
		tenant_id     UUID NOT NULL,
		sequence_key  TEXT NOT NULL,
		current_value BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (tenant_id, sequence_key)
	)`,
	`CREATE TABLE IF NOT EXISTS sys_audit (
		id                 UUID PRIMARY KEY,
		tenant_id          UUID NOT NULL,
		entity_type        TEXT NOT NULL,
		entity_id          UUID NOT NULL,
		action             TEXT NOT NULL,
		user_id            TEXT NOT NULL DEFAULT '',
		changes            JSONB,
		changes_compressed BYTEA,
		compression_algo   TEXT NOT NULL DEFAULT 'none',
		created_at         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_sys_audit_entity ON sys_audit (tenant_id, entity_type, entity_id, created_at)`,
}

// ConstraintOpenShift is the index that allows one OPEN shift per user.
const ConstraintOpenShift = "ux_cash_registers_open"

// Migrate applies the schema.
func Migrate(ctx context.Context, pool *Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	logger.Info(ctx, "schema migrated", "statements", len(schema))
	return nil
}
