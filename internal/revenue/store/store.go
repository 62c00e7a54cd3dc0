package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/comanda/internal/database"
	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/revenue"
)

type Store struct {
	db database.Querier
}

func New(db database.Querier) *Store {
	return &Store{db: db}
}

func (s *Store) UpsertDaily(ctx context.Context, day revenue.Day, delta revenue.Delta) error {
	query := `
		INSERT INTO revenue_ledger (day, revenue, commissions, ticket_count, updated_at)
		VALUES ($1::date, $2, $3, $4, NOW())
		ON CONFLICT (day) DO UPDATE SET
			revenue = revenue_ledger.revenue + EXCLUDED.revenue,
			commissions = revenue_ledger.commissions + EXCLUDED.commissions,
			ticket_count = revenue_ledger.ticket_count + EXCLUDED.ticket_count,
			updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, string(day), delta.Revenue, delta.Commissions, delta.Tickets); err != nil {
		return fmt.Errorf("upserting revenue for %s: %w", day, err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, day revenue.Day) (*revenue.Row, error) {
	query := `
		SELECT day::text, revenue, commissions, ticket_count, updated_at
		FROM revenue_ledger
		WHERE day = $1::date
	`

	var (
		r   revenue.Row
		key string
	)

	err := s.db.QueryRowContext(ctx, query, string(day)).Scan(&key, &r.Revenue, &r.Commissions, &r.TicketCount, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("revenue day", day)
		}

		return nil, fmt.Errorf("getting revenue for %s: %w", day, err)
	}

	r.Day = revenue.Day(key)

	return &r, nil
}

func (s *Store) DeleteByDayRange(ctx context.Context, start, end revenue.Day) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM revenue_ledger WHERE day BETWEEN $1::date AND $2::date`, string(start), string(end))
	if err != nil {
		return 0, fmt.Errorf("deleting revenue %s..%s: %w", start, end, err)
	}

	return res.RowsAffected()
}
