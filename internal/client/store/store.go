package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/client"
	"github.com/MrJamesThe3rd/comanda/internal/database"
	"github.com/MrJamesThe3rd/comanda/internal/errs"
)

type Store struct {
	db database.Querier
}

func New(db database.Querier) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, c *client.Client) error {
	visits, err := encodeVisits(c.History.Visits)
	if err != nil {
		return fmt.Errorf("encoding visit log: %w", err)
	}

	query := `
		INSERT INTO clients (id, name, phone, visit_count, lifetime_spend, visit_log)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = s.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Phone, c.History.VisitCount, c.History.LifetimeSpend, visits,
	)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	query := `
		SELECT id, name, phone, visit_count, lifetime_spend, visit_log
		FROM clients
		WHERE id = $1
	`

	var (
		c   client.Client
		raw []byte
	)

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Phone, &c.History.VisitCount, &c.History.LifetimeSpend, &raw,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("client", id)
		}

		return nil, fmt.Errorf("getting client: %w", err)
	}

	if c.History.Visits, err = decodeVisits(raw); err != nil {
		return nil, fmt.Errorf("decoding visit log of client %s: %w", id, err)
	}

	return &c, nil
}

func (s *Store) AppendVisit(ctx context.Context, id uuid.UUID, v client.Visit) error {
	entry, err := json.Marshal([]visitDoc{toDoc(v)})
	if err != nil {
		return fmt.Errorf("encoding visit: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE clients SET visit_log = visit_log || $1::jsonb WHERE id = $2`, entry, id)
	if err != nil {
		return fmt.Errorf("appending visit: %w", err)
	}

	return requireRow(res, id)
}

func (s *Store) IncrementTotals(ctx context.Context, id uuid.UUID, visits int64, spend decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE clients
		SET visit_count = visit_count + $1, lifetime_spend = lifetime_spend + $2
		WHERE id = $3
	`, visits, spend, id)
	if err != nil {
		return fmt.Errorf("incrementing client totals: %w", err)
	}

	return requireRow(res, id)
}

const resetHistory = `UPDATE clients SET visit_count = 0, lifetime_spend = 0, visit_log = '[]'::jsonb`

func (s *Store) ResetHistory(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	res, err := s.db.ExecContext(ctx, resetHistory+` WHERE id = ANY($1)`, database.UUIDArray(ids))
	if err != nil {
		return 0, fmt.Errorf("resetting client history: %w", err)
	}

	return res.RowsAffected()
}

func (s *Store) ResetAllHistory(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, resetHistory)
	if err != nil {
		return 0, fmt.Errorf("resetting all client history: %w", err)
	}

	return res.RowsAffected()
}

func requireRow(res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return errs.NotFound("client", id)
	}

	return nil
}

type visitDoc struct {
	TicketID uuid.UUID       `json:"ticket_id"`
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Items    []string        `json:"items"`
}

func toDoc(v client.Visit) visitDoc {
	return visitDoc{TicketID: v.TicketID, Date: v.Date, Amount: v.Amount, Items: v.Items}
}

func encodeVisits(visits []client.Visit) ([]byte, error) {
	docs := make([]visitDoc, len(visits))
	for i, v := range visits {
		docs[i] = toDoc(v)
	}

	return json.Marshal(docs)
}

func decodeVisits(raw []byte) ([]client.Visit, error) {
	var docs []visitDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	visits := make([]client.Visit, len(docs))
	for i, d := range docs {
		visits[i] = client.Visit{TicketID: d.TicketID, Date: d.Date, Amount: d.Amount, Items: d.Items}
	}

	return visits, nil
}
