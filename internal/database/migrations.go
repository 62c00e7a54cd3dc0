package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrations returns the schema as idempotent statements, applied in order.
func Migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS clients (
			id             UUID PRIMARY KEY,
			name           TEXT NOT NULL,
			phone          TEXT NOT NULL DEFAULT '',
			visit_count    BIGINT NOT NULL DEFAULT 0,
			lifetime_spend NUMERIC(14,2) NOT NULL DEFAULT 0,
			visit_log      JSONB NOT NULL DEFAULT '[]'::jsonb,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS inventory (
			product_id UUID PRIMARY KEY,
			name       TEXT NOT NULL,
			stock      BIGINT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Line items live on the ticket as documents.
		`CREATE TABLE IF NOT EXISTS tickets (
			id              UUID PRIMARY KEY,
			client_id       UUID NOT NULL,
			professional_id UUID NOT NULL,
			services        JSONB NOT NULL DEFAULT '[]'::jsonb,
			products        JSONB NOT NULL DEFAULT '[]'::jsonb,
			status          TEXT NOT NULL,
			total           NUMERIC(14,2) NOT NULL DEFAULT 0,
			discount        NUMERIC(14,2) NOT NULL DEFAULT 0,
			credit_applied  NUMERIC(14,2) NOT NULL DEFAULT 0,
			final_amount    NUMERIC(14,2) NOT NULL DEFAULT 0,
			payment_method  TEXT NOT NULL DEFAULT '',
			opened_at       TIMESTAMPTZ NOT NULL,
			closed_at       TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets(status)`,

		`CREATE TABLE IF NOT EXISTS finalizations (
			id               UUID PRIMARY KEY,
			ticket_id        UUID NOT NULL UNIQUE,
			client_id        UUID NOT NULL,
			professional_id  UUID NOT NULL,
			payment_method   TEXT NOT NULL,
			subtotal         NUMERIC(14,2) NOT NULL,
			discount         NUMERIC(14,2) NOT NULL,
			credit_applied   NUMERIC(14,2) NOT NULL,
			final_amount     NUMERIC(14,2) NOT NULL,
			commission_total NUMERIC(14,4) NOT NULL,
			breakdown        JSONB NOT NULL DEFAULT '[]'::jsonb,
			finalized_at     TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_finalizations_finalized_at ON finalizations(finalized_at)`,

		// Commission values keep four decimals so gross * rate is stored exactly.
		`CREATE TABLE IF NOT EXISTS commissions (
			id              UUID PRIMARY KEY,
			ticket_id       UUID NOT NULL,
			professional_id UUID NOT NULL,
			kind            TEXT NOT NULL,
			item_name       TEXT NOT NULL,
			gross           NUMERIC(14,2) NOT NULL,
			commission      NUMERIC(14,4) NOT NULL,
			seller_id       UUID,
			status          TEXT NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_commissions_ticket ON commissions(ticket_id)`,
		`CREATE INDEX IF NOT EXISTS idx_commissions_professional ON commissions(professional_id, status)`,

		`CREATE TABLE IF NOT EXISTS revenue_ledger (
			day          DATE PRIMARY KEY,
			revenue      NUMERIC(14,2) NOT NULL DEFAULT 0,
			commissions  NUMERIC(14,4) NOT NULL DEFAULT 0,
			ticket_count BIGINT NOT NULL DEFAULT 0,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range Migrations() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying migration %d: %w", i, err)
		}
	}

	return nil
}
