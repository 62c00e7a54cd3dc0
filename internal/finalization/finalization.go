package finalization

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/commission"
)

// Record is the immutable snapshot written once when a ticket is finalized.
type Record struct {
	ID              uuid.UUID
	TicketID        uuid.UUID
	ClientID        uuid.UUID
	ProfessionalID  uuid.UUID
	PaymentMethod   string
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	CreditApplied   decimal.Decimal
	FinalAmount     decimal.Decimal
	CommissionTotal decimal.Decimal
	Breakdown       []commission.Entry
	FinalizedAt     time.Time
}

type Repository interface {
	// Insert fails with errs.ErrInvalidState when the ticket already has a record.
	Insert(ctx context.Context, r *Record) error
	// ListBetween returns records finalized in [start, end).
	ListBetween(ctx context.Context, start, end time.Time) ([]*Record, error)
	DeleteAll(ctx context.Context) (int64, error)
	DeleteByTicketIDs(ctx context.Context, ticketIDs []uuid.UUID) (int64, error)
}

// Totals sums final amounts and commissions over records.
func Totals(records []*Record) (revenue, commissions decimal.Decimal) {
	revenue, commissions = decimal.Zero, decimal.Zero

	for _, r := range records {
		revenue = revenue.Add(r.FinalAmount)
		commissions = commissions.Add(r.CommissionTotal)
	}

	return revenue, commissions
}
