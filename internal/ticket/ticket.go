package ticket

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/money"
)

// Status represents the lifecycle state of a ticket (comanda).
type Status string

const (
	StatusOpen      Status = "open"
	StatusFinalized Status = "finalized"
	StatusVoid      Status = "void"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusFinalized, StatusVoid:
		return true
	}

	return false
}

// Ticket is one client visit: service and product lines held until the visit is closed.
type Ticket struct {
	ID             uuid.UUID
	ClientID       uuid.UUID
	ProfessionalID uuid.UUID
	Services       []ServiceLine
	Products       []ProductLine
	Status         Status
	Total          decimal.Decimal // Line-item sum at open time
	Discount       decimal.Decimal
	CreditApplied  decimal.Decimal
	FinalAmount    decimal.Decimal
	PaymentMethod  string
	OpenedAt       time.Time
	ClosedAt       *time.Time
}

type ServiceLine struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// ProductLine is a retail item sold during the visit. SellerID, when set, is credited
// with the commission instead of the ticket's professional.
type ProductLine struct {
	ProductID uuid.UUID
	Name      string
	Price     decimal.Decimal
	Quantity  int
	SellerID  *uuid.UUID
}

func (l ServiceLine) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l ProductLine) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Subtotal sums price * quantity over every line.
func (t *Ticket) Subtotal() decimal.Decimal {
	sum := decimal.Zero

	for _, l := range t.Services {
		sum = sum.Add(l.Amount())
	}

	for _, l := range t.Products {
		sum = sum.Add(l.Amount())
	}

	return sum
}

// ItemNames lists the line names in ticket order, services first.
func (t *Ticket) ItemNames() []string {
	names := make([]string, 0, len(t.Services)+len(t.Products))

	for _, l := range t.Services {
		names = append(names, l.Name)
	}

	for _, l := range t.Products {
		names = append(names, l.Name)
	}

	return names
}

// ValidateLines rejects lines with a blank name, a non-positive quantity, or a price that is
// negative or finer than a centavo.
func (t *Ticket) ValidateLines() error {
	for i, l := range t.Services {
		if err := validateLine("service", i, l.Name, l.Price, l.Quantity); err != nil {
			return err
		}
	}

	for i, l := range t.Products {
		if err := validateLine("product", i, l.Name, l.Price, l.Quantity); err != nil {
			return err
		}

		if l.ProductID == uuid.Nil {
			return errs.Validation("product line %d: missing product id", i)
		}
	}

	return nil
}

func validateLine(kind string, idx int, name string, price decimal.Decimal, qty int) error {
	if name == "" {
		return errs.Validation("%s line %d: missing name", kind, idx)
	}

	if qty <= 0 {
		return errs.Validation("%s line %d: quantity must be positive", kind, idx)
	}

	if price.IsNegative() {
		return errs.Validation("%s line %d: negative price", kind, idx)
	}

	if !money.InCents(price) {
		return errs.Validation("%s line %d: price has more than two decimal places", kind, idx)
	}

	return nil
}

// Closing carries the fields written together with a terminal status transition.
type Closing struct {
	ClosedAt      time.Time
	FinalAmount   decimal.Decimal
	Discount      decimal.Decimal
	CreditApplied decimal.Decimal
	PaymentMethod string
}

// Apply copies the closing fields onto t and moves it to status.
func (c Closing) Apply(t *Ticket, status Status) {
	closedAt := c.ClosedAt
	t.Status = status
	t.ClosedAt = &closedAt
	t.FinalAmount = c.FinalAmount
	t.Discount = c.Discount
	t.CreditApplied = c.CreditApplied
	t.PaymentMethod = c.PaymentMethod
}
