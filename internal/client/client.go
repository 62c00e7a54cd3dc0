package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Client struct {
	ID      uuid.UUID
	Name    string
	Phone   string
	History History
}

// History is the client's lifetime ledger. VisitCount always equals len(Visits).
type History struct {
	VisitCount    int64
	LifetimeSpend decimal.Decimal
	Visits        []Visit
}

// Visit is one entry in the append-only visit log.
type Visit struct {
	TicketID uuid.UUID
	Date     time.Time
	Amount   decimal.Decimal
	Items    []string
}

//go:generate mockgen -source=client.go -destination=repository_mock.go -package=client
type Repository interface {
	Create(ctx context.Context, c *Client) error
	Get(ctx context.Context, id uuid.UUID) (*Client, error)
	// AppendVisit fails with errs.ErrNotFound when the client does not exist.
	AppendVisit(ctx context.Context, id uuid.UUID, v Visit) error
	IncrementTotals(ctx context.Context, id uuid.UUID, visits int64, spend decimal.Decimal) error
	ResetHistory(ctx context.Context, ids []uuid.UUID) (int64, error)
	ResetAllHistory(ctx context.Context) (int64, error)
}

// RecordVisit appends v to the client's log and bumps the lifetime counters by one visit and v.Amount.
func RecordVisit(ctx context.Context, repo Repository, id uuid.UUID, v Visit) error {
	if err := repo.AppendVisit(ctx, id, v); err != nil {
		return fmt.Errorf("appending visit: %w", err)
	}

	if err := repo.IncrementTotals(ctx, id, 1, v.Amount); err != nil {
		return fmt.Errorf("incrementing client totals: %w", err)
	}

	return nil
}
