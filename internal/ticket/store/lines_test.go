package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

func TestDecodeServices_LegacyKeys(t *testing.T) {
	raw := []byte(`[{"nome":"Corte","preco":"132.00","quantidade":1},{"name":"Escova","price":45.5}]`)

	lines, err := decodeServices(raw)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, "Corte", lines[0].Name)
	assert.True(t, decimal.RequireFromString("132").Equal(lines[0].Price))
	assert.Equal(t, 1, lines[0].Quantity)

	assert.Equal(t, "Escova", lines[1].Name)
	assert.True(t, decimal.RequireFromString("45.5").Equal(lines[1].Price))
	assert.Equal(t, 1, lines[1].Quantity, "missing quantity defaults to one")
}

func TestProducts_RoundTrip(t *testing.T) {
	seller := uuid.New()
	in := []ticket.ProductLine{
		{ProductID: uuid.New(), Name: "Shampoo", Price: decimal.RequireFromString("59.90"), Quantity: 2, SellerID: &seller},
		{ProductID: uuid.New(), Name: "Pomada", Price: decimal.RequireFromString("30"), Quantity: 1},
	}

	raw, err := encodeProducts(in)
	require.NoError(t, err)

	out, err := decodeProducts(raw)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, in[0].ProductID, out[0].ProductID)
	assert.Equal(t, seller, *out[0].SellerID)
	assert.True(t, in[0].Price.Equal(out[0].Price))
	assert.Nil(t, out[1].SellerID)
}

func TestDecodeProducts_LegacySeller(t *testing.T) {
	seller := uuid.New()
	product := uuid.New()
	raw := []byte(`[{"product_id":"` + product.String() + `","nome":"Óleo","preco":"20","quantidade":3,"vendedor":"` + seller.String() + `"}]`)

	lines, err := decodeProducts(raw)
	require.NoError(t, err)
	require.Len(t, lines, 1)

	assert.Equal(t, product, lines[0].ProductID)
	assert.Equal(t, seller, *lines[0].SellerID)
	assert.Equal(t, 3, lines[0].Quantity)
}
