package ticket

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/errs"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ticket
type Repository interface {
	Create(ctx context.Context, t *Ticket) error
	Get(ctx context.Context, id uuid.UUID) (*Ticket, error)
	// GetForUpdate reads the ticket and, inside a transaction, holds its row lock until commit.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Ticket, error)
	// UpdateStatus moves the ticket from expected to next. It fails with errs.ErrInvalidState
	// when the stored status is no longer expected.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next Status, closing Closing) error
	FindByStatus(ctx context.Context, statuses ...Status) ([]*Ticket, error)
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type OpenParams struct {
	ClientID       uuid.UUID
	ProfessionalID uuid.UUID
	Services       []ServiceLine
	Products       []ProductLine
}

// Open creates a ticket in the open state.
func (s *Service) Open(ctx context.Context, params OpenParams) (*Ticket, error) {
	if params.ClientID == uuid.Nil {
		return nil, errs.Validation("missing client")
	}

	if params.ProfessionalID == uuid.Nil {
		return nil, errs.Validation("missing professional")
	}

	if len(params.Services) == 0 && len(params.Products) == 0 {
		return nil, errs.Validation("ticket has no lines")
	}

	t := &Ticket{
		ID:             uuid.New(),
		ClientID:       params.ClientID,
		ProfessionalID: params.ProfessionalID,
		Services:       params.Services,
		Products:       params.Products,
		Status:         StatusOpen,
		Discount:       decimal.Zero,
		CreditApplied:  decimal.Zero,
		FinalAmount:    decimal.Zero,
		OpenedAt:       s.now(),
	}

	if err := t.ValidateLines(); err != nil {
		return nil, err
	}

	t.Total = t.Subtotal()

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	return s.repo.Get(ctx, id)
}

// List returns tickets in any of the given statuses; no statuses means every status.
func (s *Service) List(ctx context.Context, statuses ...Status) ([]*Ticket, error) {
	for _, st := range statuses {
		if !st.Valid() {
			return nil, errs.Validation("unknown status %q", st)
		}
	}

	if len(statuses) == 0 {
		statuses = []Status{StatusOpen, StatusFinalized, StatusVoid}
	}

	return s.repo.FindByStatus(ctx, statuses...)
}

// Void closes an open ticket without settling it.
func (s *Service) Void(ctx context.Context, id uuid.UUID) (*Ticket, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if t.Status != StatusOpen {
		return nil, errs.InvalidState("ticket %s is %s", id, t.Status)
	}

	closing := Closing{
		ClosedAt:      s.now(),
		FinalAmount:   decimal.Zero,
		Discount:      t.Discount,
		CreditApplied: t.CreditApplied,
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusOpen, StatusVoid, closing); err != nil {
		return nil, fmt.Errorf("voiding ticket: %w", err)
	}

	closing.Apply(t, StatusVoid)

	return t, nil
}
