// Package settlement closes tickets and undoes their effects.
//
// Finalizing a ticket writes a finalization record, the day's revenue, the commission entries
// and the client's visit history in one unit of work. The ticket's conditional open->finalized
// transition is the last write, so a failure anywhere before it leaves the ticket open and the
// operation safe to retry.
//
// Reversal is a maintenance tool for demo and test data. It restocks sold products and deletes
// or resets everything the selected tickets produced, each step best-effort.
package settlement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/client"
	"github.com/MrJamesThe3rd/comanda/internal/commission"
	"github.com/MrJamesThe3rd/comanda/internal/finalization"
	"github.com/MrJamesThe3rd/comanda/internal/inventory"
	"github.com/MrJamesThe3rd/comanda/internal/revenue"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

// Stores exposes the repositories the workflow touches.
type Stores interface {
	Tickets() ticket.Repository
	Finalizations() finalization.Repository
	Commissions() commission.Repository
	Revenue() revenue.Repository
	Clients() client.Repository
	Inventory() inventory.Repository
}

// Tx is a unit of work: repositories whose writes become visible together on Commit.
type Tx interface {
	Stores
	// LockDay serializes writers of one revenue day until the unit of work ends.
	LockDay(ctx context.Context, day revenue.Day) error
	Commit() error
	Rollback() error
}

// Repository gives direct access to the stores and opens units of work over them.
type Repository interface {
	Stores
	Begin(ctx context.Context) (Tx, error)
}

type FinalizeParams struct {
	TicketID      uuid.UUID
	PaymentMethod string
	Discount      decimal.Decimal
	CreditApplied decimal.Decimal
}

// Result is what a successful finalize produced.
type Result struct {
	Record      *finalization.Record
	Ticket      *ticket.Ticket
	Commissions []commission.Entry
}

type ReverseParams struct {
	// Statuses selects the tickets to reverse; empty means open and finalized.
	Statuses []ticket.Status
	// Global wipes every finalization, commission and client history instead of only those
	// produced by the selected tickets, and drops today's revenue row.
	Global bool
	// Confirm must be set; reversal is destructive.
	Confirm bool
}

// Summary reports what a reversal did. Failed steps are listed in Warnings.
type Summary struct {
	Global                bool
	TicketsDeleted        int64
	FinalizationsDeleted  int64
	CommissionsDeleted    int64
	RevenueRowsDeleted    int64
	RevenueRowsRecomputed int64
	ClientsReset          int64
	ProductsRestocked     int64
	UnitsRestocked        int64
	Warnings              []string
}

// Recomputed is the outcome of rebuilding one revenue day.
type Recomputed struct {
	Day     revenue.Day
	Deleted int64
	// Row is nil when no finalization records remain for the day.
	Row *revenue.Row
}

const defaultLockTTL = 30 * time.Second
