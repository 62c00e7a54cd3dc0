package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/comanda/internal/client"
	"github.com/MrJamesThe3rd/comanda/internal/database"
	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/inventory"
	"github.com/MrJamesThe3rd/comanda/internal/lock"
	"github.com/MrJamesThe3rd/comanda/internal/revenue"
	"github.com/MrJamesThe3rd/comanda/internal/settlement"
	"github.com/MrJamesThe3rd/comanda/internal/settlement/store"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

func TestSettlement_Postgres(t *testing.T) {
	_ = godotenv.Load("../../../.env")

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("set TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()

	db, err := database.New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(ctx, db))

	// An old, per-run day keeps the revenue row private to this test.
	now := time.Unix(0, 0).UTC().AddDate(0, 0, int(time.Now().UnixNano()%20000)).Add(15 * time.Hour)
	clock := func() time.Time { return now }

	repo := store.New(db)
	svc := settlement.NewService(repo, lock.NewLocal(), time.UTC).WithClock(clock)
	day := revenue.DayOf(now, time.UTC)

	c := &client.Client{ID: uuid.New(), Name: "Integração", History: client.History{LifetimeSpend: decimal.Zero}}
	require.NoError(t, repo.Clients().Create(ctx, c))

	productID := uuid.New()
	require.NoError(t, repo.Inventory().Put(ctx, &inventory.Item{ProductID: productID, Name: "Shampoo IT", Stock: 1}))

	tk, err := ticket.NewService(repo.Tickets()).WithClock(clock).Open(ctx, ticket.OpenParams{
		ClientID:       c.ID,
		ProfessionalID: uuid.New(),
		Services:       []ticket.ServiceLine{{Name: "Corte", Price: decimal.RequireFromString("132.00"), Quantity: 1}},
		Products: []ticket.ProductLine{
			{ProductID: productID, Name: "Shampoo IT", Price: decimal.RequireFromString("40"), Quantity: 2},
		},
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = db.ExecContext(ctx, `DELETE FROM tickets WHERE id = $1`, tk.ID)
		_, _ = db.ExecContext(ctx, `DELETE FROM finalizations WHERE ticket_id = $1`, tk.ID)
		_, _ = db.ExecContext(ctx, `DELETE FROM commissions WHERE ticket_id = $1`, tk.ID)
		_, _ = db.ExecContext(ctx, `DELETE FROM revenue_ledger WHERE day = $1::date`, day.String())
		_, _ = db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, c.ID)
		_, _ = db.ExecContext(ctx, `DELETE FROM inventory WHERE product_id = $1`, productID)
	})

	res, err := svc.FinalizeTicket(ctx, settlement.FinalizeParams{TicketID: tk.ID, PaymentMethod: "pix"})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("212").Equal(res.Record.FinalAmount))
	assert.True(t, decimal.RequireFromString("25.20").Equal(res.Record.CommissionTotal))

	_, err = svc.FinalizeTicket(ctx, settlement.FinalizeParams{TicketID: tk.ID, PaymentMethod: "pix"})
	assert.ErrorIs(t, err, errs.ErrInvalidState)

	row, err := repo.Revenue().Get(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, int64(1), row.TicketCount)

	rc, err := svc.RecomputeDay(ctx, day)
	require.NoError(t, err)
	require.NotNil(t, rc.Row)
	assert.True(t, row.Revenue.Equal(rc.Row.Revenue))
	assert.True(t, row.Commissions.Equal(rc.Row.Commissions))

	got, err := repo.Clients().Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.History.VisitCount)
	assert.Len(t, got.History.Visits, 1)

	entries, err := repo.Commissions().ListByTicket(ctx, tk.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// Select by status would sweep unrelated rows of a shared database, so exercise the scoped
	// deletes directly.
	n, err := repo.Finalizations().DeleteByTicketIDs(ctx, []uuid.UUID{tk.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.Inventory().IncrementStock(ctx, productID, 2))

	item, err := repo.Inventory().Get(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), item.Stock)
}
