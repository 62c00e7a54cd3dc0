// Package store binds the settlement unit of work to Postgres.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/comanda/internal/client"
	clientStore "github.com/MrJamesThe3rd/comanda/internal/client/store"
	"github.com/MrJamesThe3rd/comanda/internal/commission"
	commissionStore "github.com/MrJamesThe3rd/comanda/internal/commission/store"
	"github.com/MrJamesThe3rd/comanda/internal/database"
	"github.com/MrJamesThe3rd/comanda/internal/finalization"
	finalizationStore "github.com/MrJamesThe3rd/comanda/internal/finalization/store"
	"github.com/MrJamesThe3rd/comanda/internal/inventory"
	inventoryStore "github.com/MrJamesThe3rd/comanda/internal/inventory/store"
	"github.com/MrJamesThe3rd/comanda/internal/revenue"
	revenueStore "github.com/MrJamesThe3rd/comanda/internal/revenue/store"
	"github.com/MrJamesThe3rd/comanda/internal/settlement"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
	ticketStore "github.com/MrJamesThe3rd/comanda/internal/ticket/store"
)

// stores builds every domain store over one Querier.
type stores struct {
	q database.Querier
}

func (s stores) Tickets() ticket.Repository             { return ticketStore.New(s.q) }
func (s stores) Finalizations() finalization.Repository { return finalizationStore.New(s.q) }
func (s stores) Commissions() commission.Repository     { return commissionStore.New(s.q) }
func (s stores) Revenue() revenue.Repository            { return revenueStore.New(s.q) }
func (s stores) Clients() client.Repository             { return clientStore.New(s.q) }
func (s stores) Inventory() inventory.Repository        { return inventoryStore.New(s.q) }

type Store struct {
	stores
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{stores: stores{q: db}, db: db}
}

func (s *Store) Begin(ctx context.Context) (settlement.Tx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning settlement tx: %w", err)
	}

	return &unitOfWork{stores: stores{q: dbTx}, tx: dbTx}, nil
}

type unitOfWork struct {
	stores
	tx *sql.Tx
}

func (u *unitOfWork) LockDay(ctx context.Context, day revenue.Day) error {
	if _, err := u.tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", "revenue:"+day.String()); err != nil {
		return fmt.Errorf("acquiring revenue day lock: %w", err)
	}

	return nil
}

func (u *unitOfWork) Commit() error   { return u.tx.Commit() }
func (u *unitOfWork) Rollback() error { return u.tx.Rollback() }
