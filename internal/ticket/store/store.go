package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/database"
	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

type Store struct {
	db database.Querier
}

func New(db database.Querier) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTicketColumns = `
	id, client_id, professional_id, services, products, status,
	total, discount, credit_applied, final_amount, payment_method, opened_at, closed_at
`

// scanTicket reads a ticket row in selectTicketColumns order.
func scanTicket(s scanner) (*ticket.Ticket, error) {
	var t ticket.Ticket

	var status string

	var services, products []byte

	if err := s.Scan(
		&t.ID, &t.ClientID, &t.ProfessionalID, &services, &products, &status,
		&t.Total, &t.Discount, &t.CreditApplied, &t.FinalAmount, &t.PaymentMethod,
		&t.OpenedAt, &t.ClosedAt,
	); err != nil {
		return nil, err
	}

	t.Status = ticket.Status(status)

	var err error
	if t.Services, err = decodeServices(services); err != nil {
		return nil, fmt.Errorf("decoding services of ticket %s: %w", t.ID, err)
	}

	if t.Products, err = decodeProducts(products); err != nil {
		return nil, fmt.Errorf("decoding products of ticket %s: %w", t.ID, err)
	}

	return &t, nil
}

func (s *Store) Create(ctx context.Context, t *ticket.Ticket) error {
	services, err := encodeServices(t.Services)
	if err != nil {
		return fmt.Errorf("encoding services: %w", err)
	}

	products, err := encodeProducts(t.Products)
	if err != nil {
		return fmt.Errorf("encoding products: %w", err)
	}

	query := `
		INSERT INTO tickets (id, client_id, professional_id, services, products, status,
			total, discount, credit_applied, final_amount, payment_method, opened_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = s.db.ExecContext(ctx, query,
		t.ID, t.ClientID, t.ProfessionalID, services, products, t.Status,
		t.Total, t.Discount, t.CreditApplied, t.FinalAmount, t.PaymentMethod,
		t.OpenedAt, t.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("creating ticket: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	return s.get(ctx, id, "")
}

func (s *Store) GetForUpdate(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	return s.get(ctx, id, " FOR UPDATE")
}

func (s *Store) get(ctx context.Context, id uuid.UUID, lock string) (*ticket.Ticket, error) {
	query := `SELECT ` + selectTicketColumns + ` FROM tickets WHERE id = $1` + lock

	t, err := scanTicket(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("ticket", id)
		}

		return nil, fmt.Errorf("getting ticket: %w", err)
	}

	return t, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next ticket.Status, c ticket.Closing) error {
	query := `
		UPDATE tickets
		SET status = $1, closed_at = $2, final_amount = $3, discount = $4, credit_applied = $5, payment_method = $6
		WHERE id = $7 AND status = $8
	`

	res, err := s.db.ExecContext(ctx, query,
		next, c.ClosedAt, c.FinalAmount, c.Discount, c.CreditApplied, c.PaymentMethod,
		id, expected,
	)
	if err != nil {
		return fmt.Errorf("updating ticket status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating ticket status: %w", err)
	}

	if n == 0 {
		return errs.InvalidState("ticket %s is no longer %s", id, expected)
	}

	return nil
}

func (s *Store) FindByStatus(ctx context.Context, statuses ...ticket.Status) ([]*ticket.Ticket, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))

	for i, st := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = st
	}

	query := `SELECT ` + selectTicketColumns + `
		FROM tickets
		WHERE status IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY opened_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*ticket.Ticket

	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ticket: %w", err)
		}

		tickets = append(tickets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ticket rows: %w", err)
	}

	return tickets, nil
}

func (s *Store) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM tickets WHERE id = ANY($1)`, database.UUIDArray(ids))
	if err != nil {
		return 0, fmt.Errorf("deleting tickets: %w", err)
	}

	return res.RowsAffected()
}

// lineDoc is the stored JSON shape of a line item. Older documents used Portuguese keys;
// both spellings are read and the canonical one is written.
type lineDoc struct {
	ProductID *uuid.UUID       `json:"product_id,omitempty"`
	Name      string           `json:"name,omitempty"`
	Nome      string           `json:"nome,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Preco     *decimal.Decimal `json:"preco,omitempty"`
	Quantity  int              `json:"quantity,omitempty"`
	Qtd       int              `json:"quantidade,omitempty"`
	SellerID  *uuid.UUID       `json:"seller_id,omitempty"`
	Vendedor  *uuid.UUID       `json:"vendedor,omitempty"`
}

func (d lineDoc) name() string {
	if d.Name != "" {
		return d.Name
	}

	return d.Nome
}

func (d lineDoc) price() decimal.Decimal {
	switch {
	case d.Price != nil:
		return *d.Price
	case d.Preco != nil:
		return *d.Preco
	}

	return decimal.Zero
}

// quantity defaults to 1 for legacy documents that omitted it.
func (d lineDoc) quantity() int {
	switch {
	case d.Quantity != 0:
		return d.Quantity
	case d.Qtd != 0:
		return d.Qtd
	}

	return 1
}

func (d lineDoc) seller() *uuid.UUID {
	if d.SellerID != nil {
		return d.SellerID
	}

	return d.Vendedor
}

func encodeServices(lines []ticket.ServiceLine) ([]byte, error) {
	docs := make([]lineDoc, len(lines))
	for i, l := range lines {
		docs[i] = lineDoc{Name: l.Name, Price: &l.Price, Quantity: l.Quantity}
	}

	return json.Marshal(docs)
}

func encodeProducts(lines []ticket.ProductLine) ([]byte, error) {
	docs := make([]lineDoc, len(lines))
	for i, l := range lines {
		docs[i] = lineDoc{ProductID: &l.ProductID, Name: l.Name, Price: &l.Price, Quantity: l.Quantity, SellerID: l.SellerID}
	}

	return json.Marshal(docs)
}

func decodeServices(raw []byte) ([]ticket.ServiceLine, error) {
	var docs []lineDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	lines := make([]ticket.ServiceLine, len(docs))
	for i, d := range docs {
		lines[i] = ticket.ServiceLine{Name: d.name(), Price: d.price(), Quantity: d.quantity()}
	}

	return lines, nil
}

func decodeProducts(raw []byte) ([]ticket.ProductLine, error) {
	var docs []lineDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}

	lines := make([]ticket.ProductLine, len(docs))
	for i, d := range docs {
		line := ticket.ProductLine{Name: d.name(), Price: d.price(), Quantity: d.quantity(), SellerID: d.seller()}
		if d.ProductID != nil {
			line.ProductID = *d.ProductID
		}

		lines[i] = line
	}

	return lines, nil
}
