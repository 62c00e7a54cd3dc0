package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/comanda/internal/commission"
	"github.com/MrJamesThe3rd/comanda/internal/database"
)

type Store struct {
	db database.Querier
}

func New(db database.Querier) *Store {
	return &Store{db: db}
}

// InsertMany writes every entry with one multi-row INSERT.
func (s *Store) InsertMany(ctx context.Context, entries []commission.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	const cols = 10

	values := make([]string, len(entries))
	args := make([]any, 0, len(entries)*cols)

	for i, e := range entries {
		base := i * cols
		values[i] = fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10)
		args = append(args,
			e.ID, e.TicketID, e.ProfessionalID, e.Kind, e.ItemName,
			e.Gross, e.Commission, e.SellerID, e.Status, e.CreatedAt,
		)
	}

	query := `
		INSERT INTO commissions (id, ticket_id, professional_id, kind, item_name,
			gross, commission, seller_id, status, created_at)
		VALUES ` + strings.Join(values, ", ")

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting commissions: %w", err)
	}

	return nil
}

func (s *Store) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]commission.Entry, error) {
	query := `
		SELECT id, ticket_id, professional_id, kind, item_name, gross, commission, seller_id, status, created_at
		FROM commissions
		WHERE ticket_id = $1
		ORDER BY created_at ASC, kind DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("listing commissions: %w", err)
	}
	defer rows.Close()

	var entries []commission.Entry

	for rows.Next() {
		var (
			e      commission.Entry
			kind   string
			status string
		)

		if err := rows.Scan(
			&e.ID, &e.TicketID, &e.ProfessionalID, &kind, &e.ItemName,
			&e.Gross, &e.Commission, &e.SellerID, &status, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning commission: %w", err)
		}

		e.Kind = commission.Kind(kind)
		e.Status = commission.Status(status)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating commission rows: %w", err)
	}

	return entries, nil
}

func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM commissions`)
	if err != nil {
		return 0, fmt.Errorf("deleting commissions: %w", err)
	}

	return res.RowsAffected()
}

func (s *Store) DeleteByTicketIDs(ctx context.Context, ticketIDs []uuid.UUID) (int64, error) {
	if len(ticketIDs) == 0 {
		return 0, nil
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM commissions WHERE ticket_id = ANY($1)`, database.UUIDArray(ticketIDs))
	if err != nil {
		return 0, fmt.Errorf("deleting commissions by ticket: %w", err)
	}

	return res.RowsAffected()
}
