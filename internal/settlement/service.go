package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/client"
	"github.com/MrJamesThe3rd/comanda/internal/commission"
	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/finalization"
	"github.com/MrJamesThe3rd/comanda/internal/lock"
	"github.com/MrJamesThe3rd/comanda/internal/metrics"
	"github.com/MrJamesThe3rd/comanda/internal/money"
	"github.com/MrJamesThe3rd/comanda/internal/revenue"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

type Service struct {
	repo    Repository
	locker  lock.Locker
	loc     *time.Location
	lockTTL time.Duration
	now     func() time.Time
}

func NewService(repo Repository, locker lock.Locker, loc *time.Location) *Service {
	return &Service{
		repo:    repo,
		locker:  locker,
		loc:     loc,
		lockTTL: defaultLockTTL,
		now:     time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) WithLockTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.lockTTL = ttl
	}

	return s
}

// FinalizeTicket closes an open ticket and commits its ledger effects.
func (s *Service) FinalizeTicket(ctx context.Context, params FinalizeParams) (*Result, error) {
	start := time.Now()

	res, err := s.finalizeLocked(ctx, params)

	metrics.FinalizeDuration.Observe(time.Since(start).Seconds())
	metrics.Finalizations.WithLabelValues(outcome(err)).Inc()

	if err != nil {
		if errors.Is(err, errs.ErrStorage) {
			slog.Error("finalize failed", "ticket_id", params.TicketID, "error", err)
		}

		return nil, err
	}

	slog.Info("ticket finalized",
		"ticket_id", res.Ticket.ID,
		"final_amount", res.Record.FinalAmount.StringFixed(2),
		"commission_total", res.Record.CommissionTotal.StringFixed(2),
		"commissions", len(res.Commissions),
	)

	return res, nil
}

func (p FinalizeParams) validate() error {
	if p.TicketID == uuid.Nil {
		return errs.Validation("missing ticket id")
	}

	if p.PaymentMethod == "" {
		return errs.Validation("missing payment method")
	}

	if p.Discount.IsNegative() {
		return errs.Validation("negative discount")
	}

	if p.CreditApplied.IsNegative() {
		return errs.Validation("negative credit")
	}

	if !money.InCents(p.Discount) || !money.InCents(p.CreditApplied) {
		return errs.Validation("discount and credit cannot have more than two decimal places")
	}

	return nil
}

func (s *Service) finalizeLocked(ctx context.Context, params FinalizeParams) (*Result, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "finalize:"+params.TicketID.String(), s.lockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return nil, errs.InvalidState("ticket %s is already being finalized", params.TicketID)
		}

		return nil, errs.Storage("acquiring finalize lock", err)
	}

	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("failed to release finalize lock", "ticket_id", params.TicketID, "error", err)
		}
	}()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, errs.Storage("beginning finalize", err)
	}

	res, err := s.finalize(ctx, tx, params)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Warn("failed to roll back finalize", "ticket_id", params.TicketID, "error", rbErr)
		}

		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errs.Storage("committing finalize", err)
	}

	return res, nil
}

func (s *Service) finalize(ctx context.Context, tx Tx, params FinalizeParams) (*Result, error) {
	t, err := tx.Tickets().GetForUpdate(ctx, params.TicketID)
	if err != nil {
		return nil, errs.Storage("loading ticket", err)
	}

	if t.Status != ticket.StatusOpen {
		return nil, errs.InvalidState("ticket %s is %s", t.ID, t.Status)
	}

	if err := t.ValidateLines(); err != nil {
		return nil, err
	}

	now := s.now()

	subtotal := t.Subtotal()

	finalAmount := subtotal.Sub(params.Discount).Sub(params.CreditApplied)
	if finalAmount.IsNegative() {
		finalAmount = decimal.Zero
	}

	entries := commission.Compute(t, now)
	for i := range entries {
		entries[i].ID = uuid.New()
	}

	commissionTotal := commission.Total(entries)

	record := &finalization.Record{
		ID:              uuid.New(),
		TicketID:        t.ID,
		ClientID:        t.ClientID,
		ProfessionalID:  t.ProfessionalID,
		PaymentMethod:   params.PaymentMethod,
		Subtotal:        subtotal,
		Discount:        params.Discount,
		CreditApplied:   params.CreditApplied,
		FinalAmount:     finalAmount,
		CommissionTotal: commissionTotal,
		Breakdown:       entries,
		FinalizedAt:     now,
	}

	if err := tx.Finalizations().Insert(ctx, record); err != nil {
		return nil, errs.Storage("recording finalization", err)
	}

	day := revenue.DayOf(now, s.loc)
	if err := tx.LockDay(ctx, day); err != nil {
		return nil, errs.Storage("locking revenue day", err)
	}

	delta := revenue.Delta{Revenue: finalAmount, Commissions: commissionTotal, Tickets: 1}
	if err := delta.Validate(); err != nil {
		return nil, err
	}

	if err := tx.Revenue().UpsertDaily(ctx, day, delta); err != nil {
		return nil, errs.Storage("updating daily revenue", err)
	}

	if err := tx.Commissions().InsertMany(ctx, entries); err != nil {
		return nil, errs.Storage("recording commissions", err)
	}

	visit := client.Visit{TicketID: t.ID, Date: now, Amount: finalAmount, Items: t.ItemNames()}
	if err := client.RecordVisit(ctx, tx.Clients(), t.ClientID, visit); err != nil {
		return nil, errs.Storage("recording client visit", err)
	}

	closing := ticket.Closing{
		ClosedAt:      now,
		FinalAmount:   finalAmount,
		Discount:      params.Discount,
		CreditApplied: params.CreditApplied,
		PaymentMethod: params.PaymentMethod,
	}

	if err := tx.Tickets().UpdateStatus(ctx, t.ID, ticket.StatusOpen, ticket.StatusFinalized, closing); err != nil {
		return nil, errs.Storage("closing ticket", err)
	}

	closing.Apply(t, ticket.StatusFinalized)

	return &Result{Record: record, Ticket: t, Commissions: entries}, nil
}

// ReverseTestTickets deletes the selected tickets and undoes what they produced.
// Only selecting the tickets is fatal; every later step records failures as warnings and continues.
func (s *Service) ReverseTestTickets(ctx context.Context, params ReverseParams) (*Summary, error) {
	if !params.Confirm {
		return nil, errs.Validation("reversal is destructive and must be confirmed")
	}

	statuses := params.Statuses
	if len(statuses) == 0 {
		statuses = []ticket.Status{ticket.StatusOpen, ticket.StatusFinalized}
	}

	for _, st := range statuses {
		if !st.Valid() {
			return nil, errs.Validation("unknown status %q", st)
		}
	}

	tickets, err := s.repo.Tickets().FindByStatus(ctx, statuses...)
	if err != nil {
		return nil, errs.Storage("selecting tickets", err)
	}

	mode := "scoped"
	if params.Global {
		mode = "global"
	}

	sum := &Summary{Global: params.Global}

	s.restock(ctx, tickets, sum)

	ids := make([]uuid.UUID, len(tickets))
	for i, t := range tickets {
		ids[i] = t.ID
	}

	if sum.TicketsDeleted, err = s.repo.Tickets().DeleteMany(ctx, ids); err != nil {
		sum.warn("deleting tickets: %v", err)
	}

	if params.Global {
		s.wipeAll(ctx, sum)
	} else {
		s.wipeScoped(ctx, tickets, ids, sum)
	}

	metrics.Reversals.WithLabelValues(mode).Inc()
	metrics.RestockedUnits.Add(float64(sum.UnitsRestocked))

	slog.Info("test tickets reversed",
		"mode", mode,
		"tickets", sum.TicketsDeleted,
		"finalizations", sum.FinalizationsDeleted,
		"commissions", sum.CommissionsDeleted,
		"revenue_rows", sum.RevenueRowsDeleted,
		"units_restocked", sum.UnitsRestocked,
		"warnings", len(sum.Warnings),
	)

	return sum, nil
}

// restock credits each product once with the quantity summed over every selected ticket.
func (s *Service) restock(ctx context.Context, tickets []*ticket.Ticket, sum *Summary) {
	var order []uuid.UUID

	qty := make(map[uuid.UUID]int64)

	for _, t := range tickets {
		for _, l := range t.Products {
			if _, seen := qty[l.ProductID]; !seen {
				order = append(order, l.ProductID)
			}

			qty[l.ProductID] += int64(l.Quantity)
		}
	}

	for _, id := range order {
		if err := s.repo.Inventory().IncrementStock(ctx, id, qty[id]); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				sum.warn("product %s has no inventory row, %d units not restocked", id, qty[id])
			} else {
				sum.warn("restocking product %s: %v", id, err)
			}

			continue
		}

		sum.ProductsRestocked++
		sum.UnitsRestocked += qty[id]
	}
}

func (s *Service) wipeAll(ctx context.Context, sum *Summary) {
	var err error

	if sum.FinalizationsDeleted, err = s.repo.Finalizations().DeleteAll(ctx); err != nil {
		sum.warn("deleting finalizations: %v", err)
	}

	if sum.CommissionsDeleted, err = s.repo.Commissions().DeleteAll(ctx); err != nil {
		sum.warn("deleting commissions: %v", err)
	}

	today := revenue.DayOf(s.now(), s.loc)
	if sum.RevenueRowsDeleted, err = s.repo.Revenue().DeleteByDayRange(ctx, today, today); err != nil {
		sum.warn("deleting revenue for %s: %v", today, err)
	}

	if sum.ClientsReset, err = s.repo.Clients().ResetAllHistory(ctx); err != nil {
		sum.warn("resetting client history: %v", err)
	}
}

func (s *Service) wipeScoped(ctx context.Context, tickets []*ticket.Ticket, ids []uuid.UUID, sum *Summary) {
	var (
		err     error
		clients []uuid.UUID
		days    []revenue.Day
	)

	for _, t := range tickets {
		if t.Status != ticket.StatusFinalized {
			continue
		}

		if !slices.Contains(clients, t.ClientID) {
			clients = append(clients, t.ClientID)
		}

		if t.ClosedAt != nil {
			if day := revenue.DayOf(*t.ClosedAt, s.loc); !slices.Contains(days, day) {
				days = append(days, day)
			}
		}
	}

	if sum.FinalizationsDeleted, err = s.repo.Finalizations().DeleteByTicketIDs(ctx, ids); err != nil {
		sum.warn("deleting finalizations: %v", err)
	}

	if sum.CommissionsDeleted, err = s.repo.Commissions().DeleteByTicketIDs(ctx, ids); err != nil {
		sum.warn("deleting commissions: %v", err)
	}

	if sum.ClientsReset, err = s.repo.Clients().ResetHistory(ctx, clients); err != nil {
		sum.warn("resetting client history: %v", err)
	}

	slices.Sort(days)

	for _, day := range days {
		rc, err := s.RecomputeDay(ctx, day)
		if err != nil {
			sum.warn("recomputing revenue for %s: %v", day, err)
			continue
		}

		sum.RevenueRowsDeleted += rc.Deleted
		if rc.Row != nil {
			sum.RevenueRowsRecomputed++
		}
	}
}

func (sum *Summary) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	sum.Warnings = append(sum.Warnings, msg)

	slog.Warn("reversal step failed", "detail", msg)
}

// RecomputeDay rebuilds a revenue row from the finalization records of that day.
// The row is deleted and recreated, never adjusted.
func (s *Service) RecomputeDay(ctx context.Context, day revenue.Day) (*Recomputed, error) {
	start, end, err := day.Bounds(s.loc)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, errs.Storage("beginning recompute", err)
	}

	rc, err := recompute(ctx, tx, day, start, end)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Warn("failed to roll back recompute", "day", day, "error", rbErr)
		}

		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errs.Storage("committing recompute", err)
	}

	metrics.RevenueRecomputations.Inc()

	return rc, nil
}

func recompute(ctx context.Context, tx Tx, day revenue.Day, start, end time.Time) (*Recomputed, error) {
	if err := tx.LockDay(ctx, day); err != nil {
		return nil, errs.Storage("locking revenue day", err)
	}

	records, err := tx.Finalizations().ListBetween(ctx, start, end)
	if err != nil {
		return nil, errs.Storage("listing finalizations", err)
	}

	rc := &Recomputed{Day: day}

	if rc.Deleted, err = tx.Revenue().DeleteByDayRange(ctx, day, day); err != nil {
		return nil, errs.Storage("clearing revenue row", err)
	}

	if len(records) == 0 {
		return rc, nil
	}

	rev, comm := finalization.Totals(records)

	delta := revenue.Delta{Revenue: rev, Commissions: comm, Tickets: int64(len(records))}
	if err := delta.Validate(); err != nil {
		return nil, err
	}

	if err := tx.Revenue().UpsertDaily(ctx, day, delta); err != nil {
		return nil, errs.Storage("rebuilding revenue row", err)
	}

	if rc.Row, err = tx.Revenue().Get(ctx, day); err != nil {
		return nil, errs.Storage("reading rebuilt revenue row", err)
	}

	return rc, nil
}

func outcome(err error) string {
	switch errs.Kind(err) {
	case nil:
		if err != nil {
			return metrics.OutcomeStorage
		}

		return metrics.OutcomeSuccess
	case errs.ErrNotFound:
		return metrics.OutcomeNotFound
	case errs.ErrInvalidState:
		return metrics.OutcomeInvalidState
	case errs.ErrValidation:
		return metrics.OutcomeValidation
	default:
		return metrics.OutcomeStorage
	}
}
