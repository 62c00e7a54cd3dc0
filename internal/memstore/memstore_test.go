package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/inventory"
	"github.com/MrJamesThe3rd/comanda/internal/memstore"
	"github.com/MrJamesThe3rd/comanda/internal/revenue"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

func TestTx_CommitPublishesWrites(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	tx, err := s.Begin(ctx)
	require.NoError(t, err)

	day := revenue.Day("2024-03-08")
	require.NoError(t, tx.Revenue().UpsertDaily(ctx, day, revenue.Delta{Revenue: decimal.NewFromInt(10), Tickets: 1}))

	_, err = s.Revenue().Get(ctx, day)
	assert.ErrorIs(t, err, errs.ErrNotFound, "uncommitted writes are private")

	require.NoError(t, tx.Commit())

	row, err := s.Revenue().Get(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, int64(1), row.TicketCount)

	assert.NoError(t, tx.Rollback(), "rollback after commit is a no-op")
}

func TestTx_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	id := uuid.New()
	require.NoError(t, s.Inventory().Put(ctx, &inventory.Item{ProductID: id, Name: "Shampoo", Stock: 3}))

	tx, err := s.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Inventory().IncrementStock(ctx, id, 5))
	require.NoError(t, tx.Rollback())

	item, err := s.Inventory().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), item.Stock)

	// The store is usable again once the unit of work ended.
	require.NoError(t, s.Inventory().IncrementStock(ctx, id, 1))
}

func TestFail_InjectsErrors(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	boom := errors.New("disk full")

	s.Fail("tickets.Create", boom)

	tk := &ticket.Ticket{ID: uuid.New(), Status: ticket.StatusOpen, OpenedAt: time.Now()}
	assert.ErrorIs(t, s.Tickets().Create(ctx, tk), boom)

	s.Fail("tickets.Create", nil)
	assert.NoError(t, s.Tickets().Create(ctx, tk))
}

func TestTickets_UpdateStatusIsConditional(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	tk := &ticket.Ticket{ID: uuid.New(), Status: ticket.StatusOpen, OpenedAt: time.Now()}
	require.NoError(t, s.Tickets().Create(ctx, tk))

	closing := ticket.Closing{ClosedAt: time.Now(), PaymentMethod: "pix"}
	require.NoError(t, s.Tickets().UpdateStatus(ctx, tk.ID, ticket.StatusOpen, ticket.StatusFinalized, closing))

	err := s.Tickets().UpdateStatus(ctx, tk.ID, ticket.StatusOpen, ticket.StatusVoid, closing)
	assert.ErrorIs(t, err, errs.ErrInvalidState)

	got, err := s.Tickets().Get(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.StatusFinalized, got.Status)
	assert.Equal(t, "pix", got.PaymentMethod)
}

func TestRevenue_DeleteByDayRange(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	for _, d := range []revenue.Day{"2024-03-07", "2024-03-08", "2024-03-09", "2024-03-10"} {
		require.NoError(t, s.Revenue().UpsertDaily(ctx, d, revenue.Delta{Tickets: 1}))
	}

	n, err := s.Revenue().DeleteByDayRange(ctx, "2024-03-08", "2024-03-09")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = s.Revenue().Get(ctx, "2024-03-07")
	assert.NoError(t, err)
	_, err = s.Revenue().Get(ctx, "2024-03-08")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
