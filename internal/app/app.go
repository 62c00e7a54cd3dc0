// Package app wires configuration, storage and services for the binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/comanda/internal/client"
	"github.com/MrJamesThe3rd/comanda/internal/commission"
	"github.com/MrJamesThe3rd/comanda/internal/config"
	"github.com/MrJamesThe3rd/comanda/internal/database"
	"github.com/MrJamesThe3rd/comanda/internal/lock"
	"github.com/MrJamesThe3rd/comanda/internal/memstore"
	"github.com/MrJamesThe3rd/comanda/internal/revenue"
	"github.com/MrJamesThe3rd/comanda/internal/seed"
	"github.com/MrJamesThe3rd/comanda/internal/settlement"
	settlementStore "github.com/MrJamesThe3rd/comanda/internal/settlement/store"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

type App struct {
	Config   *config.Config
	Location *time.Location
	Repo     settlement.Repository

	Tickets     *ticket.Service
	Clients     *client.Service
	Commissions *commission.Service
	Revenue     *revenue.Service
	Settlement  *settlement.Service
	Seeder      *seed.Seeder

	closers []func() error
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Location: loc}

	if err := a.openRepository(ctx); err != nil {
		return nil, err
	}

	locker := a.openLocker(ctx)

	a.Tickets = ticket.NewService(a.Repo.Tickets())
	a.Clients = client.NewService(a.Repo.Clients())
	a.Commissions = commission.NewService(a.Repo.Commissions())
	a.Revenue = revenue.NewService(a.Repo.Revenue(), loc)
	a.Settlement = settlement.NewService(a.Repo, locker, loc).WithLockTTL(cfg.Finalize.LockTTL)
	a.Seeder = seed.New(a.Repo.Clients(), a.Repo.Inventory(), a.Tickets)

	return a, nil
}

func (a *App) openRepository(ctx context.Context) error {
	if a.Config.DB.Driver == config.DriverMemory {
		slog.Warn("using in-memory storage; data is lost on exit")

		a.Repo = memstore.New()

		return nil
	}

	db, err := database.New(a.Config.ConnectionString())
	if err != nil {
		return err
	}

	a.closers = append(a.closers, db.Close)

	if a.Config.DB.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return fmt.Errorf("migrating database: %w", err)
		}
	}

	a.Repo = settlementStore.New(db)

	return nil
}

// openLocker prefers Redis so several API instances share finalize locks, and falls back
// to an in-process lock when Redis is not configured or unreachable.
func (a *App) openLocker(ctx context.Context) lock.Locker {
	if a.Config.Redis.Addr == "" {
		return lock.NewLocal()
	}

	rdb, err := lock.Dial(ctx, a.Config.Redis.Addr, a.Config.Redis.Password, a.Config.Redis.DB)
	if err != nil {
		slog.Warn("redis unavailable, using in-process finalize locks", "addr", a.Config.Redis.Addr, "error", err)
		return lock.NewLocal()
	}

	a.closers = append(a.closers, rdb.Close)

	return lock.NewRedis(rdb, a.Config.App.Name+":lock:")
}

func (a *App) Close() error {
	var errList []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errList = append(errList, err)
		}
	}

	return errors.Join(errList...)
}
