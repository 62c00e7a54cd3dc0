package commission_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/comanda/internal/commission"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute(t *testing.T) {
	pro := uuid.New()
	seller := uuid.New()
	at := time.Date(2024, 3, 8, 18, 0, 0, 0, time.UTC)

	type want struct {
		kind         commission.Kind
		professional uuid.UUID
		gross        string
		commission   string
		seller       *uuid.UUID
	}

	tests := []struct {
		name     string
		services []ticket.ServiceLine
		products []ticket.ProductLine
		want     []want
	}{
		{
			name:     "ServiceTenPercent",
			services: []ticket.ServiceLine{{Name: "Corte", Price: dec("100"), Quantity: 1}},
			want:     []want{{commission.KindService, pro, "100", "10.00", nil}},
		},
		{
			name:     "ProductCreditsSeller",
			products: []ticket.ProductLine{{ProductID: uuid.New(), Name: "Shampoo", Price: dec("100"), Quantity: 2, SellerID: &seller}},
			want:     []want{{commission.KindProduct, seller, "200", "30.00", &seller}},
		},
		{
			name:     "ProductWithoutSellerCreditsProfessional",
			products: []ticket.ProductLine{{ProductID: uuid.New(), Name: "Pomada", Price: dec("19.90"), Quantity: 1}},
			want:     []want{{commission.KindProduct, pro, "19.90", "2.985", nil}},
		},
		{
			name:     "Corte",
			services: []ticket.ServiceLine{{Name: "Corte", Price: dec("132.00"), Quantity: 1}},
			want:     []want{{commission.KindService, pro, "132", "13.20", nil}},
		},
		{
			name:     "Empty",
			want:     []want{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := &ticket.Ticket{ID: uuid.New(), ProfessionalID: pro, Services: tt.services, Products: tt.products}

			got := commission.Compute(tk, at)
			require.Len(t, got, len(tt.want))

			for i, w := range tt.want {
				e := got[i]
				assert.Equal(t, tk.ID, e.TicketID)
				assert.Equal(t, w.kind, e.Kind)
				assert.Equal(t, w.professional, e.ProfessionalID)
				assert.True(t, dec(w.gross).Equal(e.Gross), "gross %s", e.Gross)
				assert.True(t, dec(w.commission).Equal(e.Commission), "commission %s", e.Commission)
				assert.Equal(t, w.seller, e.SellerID)
				assert.Equal(t, commission.StatusPending, e.Status)
				assert.Equal(t, at, e.CreatedAt)
				assert.True(t, e.Gross.Mul(commission.Rate(e.Kind)).Equal(e.Commission))
			}
		})
	}
}

func TestCompute_ServicesBeforeProducts(t *testing.T) {
	tk := &ticket.Ticket{
		ID:             uuid.New(),
		ProfessionalID: uuid.New(),
		Services:       []ticket.ServiceLine{{Name: "Escova", Price: dec("45"), Quantity: 1}},
		Products:       []ticket.ProductLine{{ProductID: uuid.New(), Name: "Óleo", Price: dec("20"), Quantity: 3}},
	}

	got := commission.Compute(tk, time.Now())
	require.Len(t, got, 2)
	assert.Equal(t, "Escova", got[0].ItemName)
	assert.Equal(t, "Óleo", got[1].ItemName)
	assert.True(t, dec("13.50").Equal(commission.Total(got)), "total %s", commission.Total(got))
}
