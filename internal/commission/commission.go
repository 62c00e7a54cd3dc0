package commission

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

type Kind string

const (
	KindService Kind = "service"
	KindProduct Kind = "product"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

var (
	ServiceRate = decimal.RequireFromString("0.10")
	ProductRate = decimal.RequireFromString("0.15")
)

// Rate returns the fixed commission rate for kind.
func Rate(kind Kind) decimal.Decimal {
	if kind == KindProduct {
		return ProductRate
	}

	return ServiceRate
}

// Entry is a payout credit for one commissionable line of a finalized ticket.
type Entry struct {
	ID             uuid.UUID
	TicketID       uuid.UUID
	ProfessionalID uuid.UUID // Who is credited
	Kind           Kind
	ItemName       string
	Gross          decimal.Decimal
	Commission     decimal.Decimal
	SellerID       *uuid.UUID
	Status         Status
	CreatedAt      time.Time
}

// Compute maps the ticket's lines to pending commission entries, services first.
// Product lines credit the seller when one is recorded, otherwise the ticket's professional.
// Entry IDs are left for the caller to assign.
func Compute(t *ticket.Ticket, at time.Time) []Entry {
	entries := make([]Entry, 0, len(t.Services)+len(t.Products))

	for _, l := range t.Services {
		gross := l.Amount()
		entries = append(entries, Entry{
			TicketID:       t.ID,
			ProfessionalID: t.ProfessionalID,
			Kind:           KindService,
			ItemName:       l.Name,
			Gross:          gross,
			Commission:     gross.Mul(ServiceRate),
			Status:         StatusPending,
			CreatedAt:      at,
		})
	}

	for _, l := range t.Products {
		gross := l.Amount()

		credited := t.ProfessionalID
		if l.SellerID != nil {
			credited = *l.SellerID
		}

		entries = append(entries, Entry{
			TicketID:       t.ID,
			ProfessionalID: credited,
			Kind:           KindProduct,
			ItemName:       l.Name,
			Gross:          gross,
			Commission:     gross.Mul(ProductRate),
			SellerID:       l.SellerID,
			Status:         StatusPending,
			CreatedAt:      at,
		})
	}

	return entries
}

func Total(entries []Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Commission)
	}

	return sum
}
