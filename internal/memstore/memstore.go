// Package memstore keeps every settlement repository in memory.
//
// A unit of work runs against a private copy of the data and swaps it in on Commit; units of
// work and direct writes are serialized against each other. Used by tests and by the
// DB_DRIVER=memory mode of the binaries.
package memstore

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/comanda/internal/client"
	"github.com/MrJamesThe3rd/comanda/internal/commission"
	"github.com/MrJamesThe3rd/comanda/internal/finalization"
	"github.com/MrJamesThe3rd/comanda/internal/inventory"
	"github.com/MrJamesThe3rd/comanda/internal/revenue"
	"github.com/MrJamesThe3rd/comanda/internal/settlement"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

var errTxDone = errors.New("memstore: transaction already finished")

type state struct {
	tickets       map[uuid.UUID]*ticket.Ticket
	finalizations map[uuid.UUID]*finalization.Record // by ticket id
	commissions   []commission.Entry
	revenue       map[revenue.Day]*revenue.Row
	clients       map[uuid.UUID]*client.Client
	inventory     map[uuid.UUID]*inventory.Item
}

func newState() *state {
	return &state{
		tickets:       make(map[uuid.UUID]*ticket.Ticket),
		finalizations: make(map[uuid.UUID]*finalization.Record),
		revenue:       make(map[revenue.Day]*revenue.Row),
		clients:       make(map[uuid.UUID]*client.Client),
		inventory:     make(map[uuid.UUID]*inventory.Item),
	}
}

func (st *state) clone() *state {
	c := newState()

	for id, t := range st.tickets {
		c.tickets[id] = copyTicket(t)
	}

	for id, r := range st.finalizations {
		c.finalizations[id] = copyRecord(r)
	}

	c.commissions = append([]commission.Entry(nil), st.commissions...)

	for d, r := range st.revenue {
		row := *r
		c.revenue[d] = &row
	}

	for id, cl := range st.clients {
		c.clients[id] = copyClient(cl)
	}

	for id, it := range st.inventory {
		item := *it
		c.inventory[id] = &item
	}

	return c
}

// access runs a function against the state it guards.
type access interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
	fail(op string) error
}

type Store struct {
	txMu sync.Mutex   // held by a unit of work, or by a direct write
	mu   sync.RWMutex // guards st
	st   *state

	failMu   sync.Mutex
	failures map[string]error
}

func New() *Store {
	return &Store{st: newState(), failures: make(map[string]error)}
}

// Fail makes every later call of op (e.g. "commissions.InsertMany") return err.
// A nil err clears the failure.
func (s *Store) Fail(op string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()

	if err == nil {
		delete(s.failures, op)
		return
	}

	s.failures[op] = err
}

func (s *Store) fail(op string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()

	return s.failures[op]
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.st)
}

func (s *Store) Tickets() ticket.Repository             { return tickets{s} }
func (s *Store) Finalizations() finalization.Repository { return finalizations{s} }
func (s *Store) Commissions() commission.Repository     { return commissions{s} }
func (s *Store) Revenue() revenue.Repository            { return revenueRows{s} }
func (s *Store) Clients() client.Repository             { return clients{s} }
func (s *Store) Inventory() inventory.Repository        { return stock{s} }

func (s *Store) Begin(ctx context.Context) (settlement.Tx, error) {
	if err := s.fail("Begin"); err != nil {
		return nil, err
	}

	s.txMu.Lock()

	if err := ctx.Err(); err != nil {
		s.txMu.Unlock()
		return nil, err
	}

	s.mu.RLock()
	st := s.st.clone()
	s.mu.RUnlock()

	return &Tx{store: s, st: st}, nil
}

// Tx is a unit of work over a private copy of the store.
type Tx struct {
	store *Store
	st    *state
	done  bool
}

func (tx *Tx) read(fn func(st *state) error) error {
	if tx.done {
		return errTxDone
	}

	return fn(tx.st)
}

func (tx *Tx) write(fn func(st *state) error) error {
	return tx.read(fn)
}

func (tx *Tx) fail(op string) error {
	return tx.store.fail(op)
}

func (tx *Tx) Tickets() ticket.Repository             { return tickets{tx} }
func (tx *Tx) Finalizations() finalization.Repository { return finalizations{tx} }
func (tx *Tx) Commissions() commission.Repository     { return commissions{tx} }
func (tx *Tx) Revenue() revenue.Repository            { return revenueRows{tx} }
func (tx *Tx) Clients() client.Repository             { return clients{tx} }
func (tx *Tx) Inventory() inventory.Repository        { return stock{tx} }

// LockDay is a no-op; units of work are already serialized.
func (tx *Tx) LockDay(context.Context, revenue.Day) error {
	if tx.done {
		return errTxDone
	}

	return tx.fail("LockDay")
}

func (tx *Tx) Commit() error {
	if tx.done {
		return errTxDone
	}

	if err := tx.fail("Commit"); err != nil {
		_ = tx.Rollback()
		return err
	}

	tx.store.mu.Lock()
	tx.store.st = tx.st
	tx.store.mu.Unlock()

	tx.done = true
	tx.store.txMu.Unlock()

	return nil
}

func (tx *Tx) Rollback() error {
	if tx.done {
		return nil
	}

	tx.done = true
	tx.st = nil
	tx.store.txMu.Unlock()

	return nil
}

func copyTicket(t *ticket.Ticket) *ticket.Ticket {
	c := *t
	c.Services = append([]ticket.ServiceLine(nil), t.Services...)
	c.Products = append([]ticket.ProductLine(nil), t.Products...)

	if t.ClosedAt != nil {
		closedAt := *t.ClosedAt
		c.ClosedAt = &closedAt
	}

	return &c
}

func copyRecord(r *finalization.Record) *finalization.Record {
	c := *r
	c.Breakdown = append([]commission.Entry(nil), r.Breakdown...)

	return &c
}

func copyClient(cl *client.Client) *client.Client {
	c := *cl
	c.History.Visits = make([]client.Visit, len(cl.History.Visits))

	for i, v := range cl.History.Visits {
		v.Items = append([]string(nil), v.Items...)
		c.History.Visits[i] = v
	}

	return &c
}
