package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/commission"
	"github.com/MrJamesThe3rd/comanda/internal/database"
	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/finalization"
)

const uniqueViolation = "23505"

type Store struct {
	db database.Querier
}

func New(db database.Querier) *Store {
	return &Store{db: db}
}

func (s *Store) Insert(ctx context.Context, r *finalization.Record) error {
	breakdown, err := encodeBreakdown(r.Breakdown)
	if err != nil {
		return fmt.Errorf("encoding breakdown: %w", err)
	}

	query := `
		INSERT INTO finalizations (id, ticket_id, client_id, professional_id, payment_method,
			subtotal, discount, credit_applied, final_amount, commission_total, breakdown, finalized_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = s.db.ExecContext(ctx, query,
		r.ID, r.TicketID, r.ClientID, r.ProfessionalID, r.PaymentMethod,
		r.Subtotal, r.Discount, r.CreditApplied, r.FinalAmount, r.CommissionTotal,
		breakdown, r.FinalizedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errs.InvalidState("ticket %s already finalized", r.TicketID)
		}

		return fmt.Errorf("inserting finalization: %w", err)
	}

	return nil
}

func (s *Store) ListBetween(ctx context.Context, start, end time.Time) ([]*finalization.Record, error) {
	query := `
		SELECT id, ticket_id, client_id, professional_id, payment_method,
			subtotal, discount, credit_applied, final_amount, commission_total, breakdown, finalized_at
		FROM finalizations
		WHERE finalized_at >= $1 AND finalized_at < $2
		ORDER BY finalized_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing finalizations: %w", err)
	}
	defer rows.Close()

	var records []*finalization.Record

	for rows.Next() {
		var (
			r         finalization.Record
			breakdown []byte
		)

		if err := rows.Scan(
			&r.ID, &r.TicketID, &r.ClientID, &r.ProfessionalID, &r.PaymentMethod,
			&r.Subtotal, &r.Discount, &r.CreditApplied, &r.FinalAmount, &r.CommissionTotal,
			&breakdown, &r.FinalizedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning finalization: %w", err)
		}

		if r.Breakdown, err = decodeBreakdown(breakdown, r.TicketID, r.FinalizedAt); err != nil {
			return nil, fmt.Errorf("decoding breakdown of ticket %s: %w", r.TicketID, err)
		}

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating finalization rows: %w", err)
	}

	return records, nil
}

func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM finalizations`)
	if err != nil {
		return 0, fmt.Errorf("deleting finalizations: %w", err)
	}

	return res.RowsAffected()
}

func (s *Store) DeleteByTicketIDs(ctx context.Context, ticketIDs []uuid.UUID) (int64, error) {
	if len(ticketIDs) == 0 {
		return 0, nil
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM finalizations WHERE ticket_id = ANY($1)`, database.UUIDArray(ticketIDs))
	if err != nil {
		return 0, fmt.Errorf("deleting finalizations by ticket: %w", err)
	}

	return res.RowsAffected()
}

// breakdownLine is the stored shape of one commission line in the snapshot.
type breakdownLine struct {
	EntryID        uuid.UUID       `json:"entry_id"`
	ProfessionalID uuid.UUID       `json:"professional_id"`
	Kind           commission.Kind `json:"kind"`
	ItemName       string          `json:"item_name"`
	Gross          decimal.Decimal `json:"gross"`
	Commission     decimal.Decimal `json:"commission"`
	SellerID       *uuid.UUID      `json:"seller_id,omitempty"`
}

func encodeBreakdown(entries []commission.Entry) ([]byte, error) {
	lines := make([]breakdownLine, len(entries))
	for i, e := range entries {
		lines[i] = breakdownLine{
			EntryID:        e.ID,
			ProfessionalID: e.ProfessionalID,
			Kind:           e.Kind,
			ItemName:       e.ItemName,
			Gross:          e.Gross,
			Commission:     e.Commission,
			SellerID:       e.SellerID,
		}
	}

	return json.Marshal(lines)
}

func decodeBreakdown(raw []byte, ticketID uuid.UUID, at time.Time) ([]commission.Entry, error) {
	var lines []breakdownLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}

	entries := make([]commission.Entry, len(lines))
	for i, l := range lines {
		entries[i] = commission.Entry{
			ID:             l.EntryID,
			TicketID:       ticketID,
			ProfessionalID: l.ProfessionalID,
			Kind:           l.Kind,
			ItemName:       l.ItemName,
			Gross:          l.Gross,
			Commission:     l.Commission,
			SellerID:       l.SellerID,
			Status:         commission.StatusPending,
			CreatedAt:      at,
		}
	}

	return entries, nil
}
