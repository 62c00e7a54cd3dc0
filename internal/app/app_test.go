package app_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/comanda/internal/app"
	"github.com/MrJamesThe3rd/comanda/internal/config"
	"github.com/MrJamesThe3rd/comanda/internal/settlement"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

func memoryConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "comanda-test"
	cfg.App.Timezone = "America/Sao_Paulo"
	cfg.DB.Driver = config.DriverMemory

	return cfg
}

func TestNew_MemoryDriver(t *testing.T) {
	ctx := context.Background()

	a, err := app.New(ctx, memoryConfig())
	require.NoError(t, err)

	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	c, err := a.Clients.Create(ctx, "Ana", "")
	require.NoError(t, err)

	tk, err := a.Tickets.Open(ctx, ticket.OpenParams{
		ClientID:       c.ID,
		ProfessionalID: c.ID,
		Services:       []ticket.ServiceLine{{Name: "Corte", Price: decimal.RequireFromString("132.00"), Quantity: 1}},
	})
	require.NoError(t, err)

	res, err := a.Settlement.FinalizeTicket(ctx, settlement.FinalizeParams{TicketID: tk.ID, PaymentMethod: "pix"})
	require.NoError(t, err)

	row, err := a.Revenue.Get(ctx, a.Revenue.Today())
	require.NoError(t, err)
	assert.True(t, res.Record.FinalAmount.Equal(row.Revenue))

	entries, err := a.Commissions.ListByTicket(ctx, tk.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestNew_BadTimezone(t *testing.T) {
	cfg := memoryConfig()
	cfg.App.Timezone = "Mars/Olympus"

	_, err := app.New(context.Background(), cfg)
	assert.Error(t, err)
}
