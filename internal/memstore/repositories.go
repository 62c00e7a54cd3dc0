package memstore

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/client"
	"github.com/MrJamesThe3rd/comanda/internal/commission"
	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/finalization"
	"github.com/MrJamesThe3rd/comanda/internal/inventory"
	"github.com/MrJamesThe3rd/comanda/internal/revenue"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

type tickets struct{ a access }

func (r tickets) Create(_ context.Context, t *ticket.Ticket) error {
	if err := r.a.fail("tickets.Create"); err != nil {
		return err
	}

	return r.a.write(func(st *state) error {
		st.tickets[t.ID] = copyTicket(t)
		return nil
	})
}

func (r tickets) Get(_ context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	if err := r.a.fail("tickets.Get"); err != nil {
		return nil, err
	}

	var out *ticket.Ticket

	err := r.a.read(func(st *state) error {
		t, ok := st.tickets[id]
		if !ok {
			return errs.NotFound("ticket", id)
		}

		out = copyTicket(t)

		return nil
	})

	return out, err
}

func (r tickets) GetForUpdate(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	return r.Get(ctx, id)
}

func (r tickets) UpdateStatus(_ context.Context, id uuid.UUID, expected, next ticket.Status, c ticket.Closing) error {
	if err := r.a.fail("tickets.UpdateStatus"); err != nil {
		return err
	}

	return r.a.write(func(st *state) error {
		t, ok := st.tickets[id]
		if !ok || t.Status != expected {
			return errs.InvalidState("ticket %s is no longer %s", id, expected)
		}

		c.Apply(t, next)

		return nil
	})
}

func (r tickets) FindByStatus(_ context.Context, statuses ...ticket.Status) ([]*ticket.Ticket, error) {
	if err := r.a.fail("tickets.FindByStatus"); err != nil {
		return nil, err
	}

	var out []*ticket.Ticket

	err := r.a.read(func(st *state) error {
		for _, t := range st.tickets {
			if slices.Contains(statuses, t.Status) {
				out = append(out, copyTicket(t))
			}
		}

		return nil
	})

	slices.SortFunc(out, func(a, b *ticket.Ticket) int { return a.OpenedAt.Compare(b.OpenedAt) })

	return out, err
}

func (r tickets) DeleteMany(_ context.Context, ids []uuid.UUID) (int64, error) {
	if err := r.a.fail("tickets.DeleteMany"); err != nil {
		return 0, err
	}

	var n int64

	err := r.a.write(func(st *state) error {
		for _, id := range ids {
			if _, ok := st.tickets[id]; ok {
				delete(st.tickets, id)
				n++
			}
		}

		return nil
	})

	return n, err
}

type finalizations struct{ a access }

func (r finalizations) Insert(_ context.Context, rec *finalization.Record) error {
	if err := r.a.fail("finalizations.Insert"); err != nil {
		return err
	}

	return r.a.write(func(st *state) error {
		if _, dup := st.finalizations[rec.TicketID]; dup {
			return errs.InvalidState("ticket %s already finalized", rec.TicketID)
		}

		st.finalizations[rec.TicketID] = copyRecord(rec)

		return nil
	})
}

func (r finalizations) ListBetween(_ context.Context, start, end time.Time) ([]*finalization.Record, error) {
	if err := r.a.fail("finalizations.ListBetween"); err != nil {
		return nil, err
	}

	var out []*finalization.Record

	err := r.a.read(func(st *state) error {
		for _, rec := range st.finalizations {
			if !rec.FinalizedAt.Before(start) && rec.FinalizedAt.Before(end) {
				out = append(out, copyRecord(rec))
			}
		}

		return nil
	})

	slices.SortFunc(out, func(a, b *finalization.Record) int { return a.FinalizedAt.Compare(b.FinalizedAt) })

	return out, err
}

func (r finalizations) DeleteAll(_ context.Context) (int64, error) {
	if err := r.a.fail("finalizations.DeleteAll"); err != nil {
		return 0, err
	}

	var n int64

	err := r.a.write(func(st *state) error {
		n = int64(len(st.finalizations))
		clear(st.finalizations)

		return nil
	})

	return n, err
}

func (r finalizations) DeleteByTicketIDs(_ context.Context, ids []uuid.UUID) (int64, error) {
	if err := r.a.fail("finalizations.DeleteByTicketIDs"); err != nil {
		return 0, err
	}

	var n int64

	err := r.a.write(func(st *state) error {
		for _, id := range ids {
			if _, ok := st.finalizations[id]; ok {
				delete(st.finalizations, id)
				n++
			}
		}

		return nil
	})

	return n, err
}

type commissions struct{ a access }

func (r commissions) InsertMany(_ context.Context, entries []commission.Entry) error {
	if err := r.a.fail("commissions.InsertMany"); err != nil {
		return err
	}

	return r.a.write(func(st *state) error {
		st.commissions = append(st.commissions, entries...)
		return nil
	})
}

func (r commissions) ListByTicket(_ context.Context, ticketID uuid.UUID) ([]commission.Entry, error) {
	if err := r.a.fail("commissions.ListByTicket"); err != nil {
		return nil, err
	}

	var out []commission.Entry

	err := r.a.read(func(st *state) error {
		for _, e := range st.commissions {
			if e.TicketID == ticketID {
				out = append(out, e)
			}
		}

		return nil
	})

	return out, err
}

func (r commissions) DeleteAll(_ context.Context) (int64, error) {
	if err := r.a.fail("commissions.DeleteAll"); err != nil {
		return 0, err
	}

	var n int64

	err := r.a.write(func(st *state) error {
		n = int64(len(st.commissions))
		st.commissions = nil

		return nil
	})

	return n, err
}

func (r commissions) DeleteByTicketIDs(_ context.Context, ids []uuid.UUID) (int64, error) {
	if err := r.a.fail("commissions.DeleteByTicketIDs"); err != nil {
		return 0, err
	}

	var n int64

	err := r.a.write(func(st *state) error {
		before := len(st.commissions)
		st.commissions = slices.DeleteFunc(st.commissions, func(e commission.Entry) bool {
			return slices.Contains(ids, e.TicketID)
		})
		n = int64(before - len(st.commissions))

		return nil
	})

	return n, err
}

type revenueRows struct{ a access }

func (r revenueRows) UpsertDaily(_ context.Context, day revenue.Day, delta revenue.Delta) error {
	if err := r.a.fail("revenue.UpsertDaily"); err != nil {
		return err
	}

	return r.a.write(func(st *state) error {
		row, ok := st.revenue[day]
		if !ok {
			row = &revenue.Row{Day: day, Revenue: decimal.Zero, Commissions: decimal.Zero}
			st.revenue[day] = row
		}

		row.Revenue = row.Revenue.Add(delta.Revenue)
		row.Commissions = row.Commissions.Add(delta.Commissions)
		row.TicketCount += delta.Tickets
		row.UpdatedAt = time.Now()

		return nil
	})
}

func (r revenueRows) Get(_ context.Context, day revenue.Day) (*revenue.Row, error) {
	if err := r.a.fail("revenue.Get"); err != nil {
		return nil, err
	}

	var out *revenue.Row

	err := r.a.read(func(st *state) error {
		row, ok := st.revenue[day]
		if !ok {
			return errs.NotFound("revenue day", day)
		}

		c := *row
		out = &c

		return nil
	})

	return out, err
}

func (r revenueRows) DeleteByDayRange(_ context.Context, start, end revenue.Day) (int64, error) {
	if err := r.a.fail("revenue.DeleteByDayRange"); err != nil {
		return 0, err
	}

	var n int64

	err := r.a.write(func(st *state) error {
		// YYYY-MM-DD keys order the same as the days they name.
		for day := range st.revenue {
			if day >= start && day <= end {
				delete(st.revenue, day)
				n++
			}
		}

		return nil
	})

	return n, err
}

type clients struct{ a access }

func (r clients) Create(_ context.Context, c *client.Client) error {
	if err := r.a.fail("clients.Create"); err != nil {
		return err
	}

	return r.a.write(func(st *state) error {
		st.clients[c.ID] = copyClient(c)
		return nil
	})
}

func (r clients) Get(_ context.Context, id uuid.UUID) (*client.Client, error) {
	if err := r.a.fail("clients.Get"); err != nil {
		return nil, err
	}

	var out *client.Client

	err := r.a.read(func(st *state) error {
		c, ok := st.clients[id]
		if !ok {
			return errs.NotFound("client", id)
		}

		out = copyClient(c)

		return nil
	})

	return out, err
}

func (r clients) AppendVisit(_ context.Context, id uuid.UUID, v client.Visit) error {
	if err := r.a.fail("clients.AppendVisit"); err != nil {
		return err
	}

	return r.a.write(func(st *state) error {
		c, ok := st.clients[id]
		if !ok {
			return errs.NotFound("client", id)
		}

		v.Items = append([]string(nil), v.Items...)
		c.History.Visits = append(c.History.Visits, v)

		return nil
	})
}

func (r clients) IncrementTotals(_ context.Context, id uuid.UUID, visits int64, spend decimal.Decimal) error {
	if err := r.a.fail("clients.IncrementTotals"); err != nil {
		return err
	}

	return r.a.write(func(st *state) error {
		c, ok := st.clients[id]
		if !ok {
			return errs.NotFound("client", id)
		}

		c.History.VisitCount += visits
		c.History.LifetimeSpend = c.History.LifetimeSpend.Add(spend)

		return nil
	})
}

func (r clients) ResetHistory(_ context.Context, ids []uuid.UUID) (int64, error) {
	if err := r.a.fail("clients.ResetHistory"); err != nil {
		return 0, err
	}

	var n int64

	err := r.a.write(func(st *state) error {
		for _, id := range ids {
			if c, ok := st.clients[id]; ok {
				c.History = client.History{LifetimeSpend: decimal.Zero}
				n++
			}
		}

		return nil
	})

	return n, err
}

func (r clients) ResetAllHistory(_ context.Context) (int64, error) {
	if err := r.a.fail("clients.ResetAllHistory"); err != nil {
		return 0, err
	}

	var n int64

	err := r.a.write(func(st *state) error {
		for _, c := range st.clients {
			c.History = client.History{LifetimeSpend: decimal.Zero}
			n++
		}

		return nil
	})

	return n, err
}

type stock struct{ a access }

func (r stock) Put(_ context.Context, item *inventory.Item) error {
	if err := r.a.fail("inventory.Put"); err != nil {
		return err
	}

	return r.a.write(func(st *state) error {
		c := *item
		st.inventory[item.ProductID] = &c

		return nil
	})
}

func (r stock) Get(_ context.Context, productID uuid.UUID) (*inventory.Item, error) {
	if err := r.a.fail("inventory.Get"); err != nil {
		return nil, err
	}

	var out *inventory.Item

	err := r.a.read(func(st *state) error {
		item, ok := st.inventory[productID]
		if !ok {
			return errs.NotFound("product", productID)
		}

		c := *item
		out = &c

		return nil
	})

	return out, err
}

func (r stock) IncrementStock(_ context.Context, productID uuid.UUID, qty int64) error {
	if err := r.a.fail("inventory.IncrementStock"); err != nil {
		return err
	}

	return r.a.write(func(st *state) error {
		item, ok := st.inventory[productID]
		if !ok {
			return errs.NotFound("product", productID)
		}

		item.Stock += qty

		return nil
	})
}
