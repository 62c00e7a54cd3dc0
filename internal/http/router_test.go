package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/comanda/internal/app"
	"github.com/MrJamesThe3rd/comanda/internal/config"
	comandaHttp "github.com/MrJamesThe3rd/comanda/internal/http"
	clientHandler "github.com/MrJamesThe3rd/comanda/internal/http/client"
	maintenanceHandler "github.com/MrJamesThe3rd/comanda/internal/http/maintenance"
	revenueHandler "github.com/MrJamesThe3rd/comanda/internal/http/revenue"
	ticketHandler "github.com/MrJamesThe3rd/comanda/internal/http/ticket"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Name = "comanda-test"
	cfg.App.Timezone = "America/Sao_Paulo"
	cfg.DB.Driver = config.DriverMemory

	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)

	router := comandaHttp.New(
		[]string{"*"},
		ticketHandler.NewHandler(a.Tickets, a.Settlement, a.Commissions),
		clientHandler.NewHandler(a.Clients),
		revenueHandler.NewHandler(a.Revenue, a.Settlement),
		maintenanceHandler.NewHandler(a.Settlement),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		assert.NoError(t, a.Close())
	})

	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequestWithContext(context.Background(), method, srv.URL+path, &buf)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

type idResponse struct {
	ID uuid.UUID `json:"id"`
}

type errorBody struct {
	Error string `json:"error"`
}

func TestRouter_FinalizeFlow(t *testing.T) {
	srv := newServer(t)

	var c idResponse
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/v1/clients/", map[string]any{"name": "Ana"}, &c))

	var tk idResponse
	status := do(t, srv, http.MethodPost, "/api/v1/tickets/", map[string]any{
		"client_id":       c.ID,
		"professional_id": uuid.New(),
		"services":        []map[string]any{{"name": "Corte", "price": "132.00", "quantity": 1}},
		"products":        []map[string]any{{"product_id": uuid.New(), "name": "Shampoo", "price": "40", "quantity": 2}},
	}, &tk)
	require.Equal(t, http.StatusCreated, status)

	var fin struct {
		Finalization struct {
			FinalAmount     decimal.Decimal `json:"final_amount"`
			CommissionTotal decimal.Decimal `json:"commission_total"`
			Breakdown       []struct {
				Kind string `json:"kind"`
			} `json:"breakdown"`
		} `json:"finalization"`
		Ticket struct {
			Status string `json:"status"`
		} `json:"ticket"`
	}
	status = do(t, srv, http.MethodPost, "/api/v1/tickets/"+tk.ID.String()+"/finalize", map[string]any{
		"payment_method": "pix",
		"discount":       "12",
	}, &fin)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "finalized", fin.Ticket.Status)
	assert.True(t, decimal.RequireFromString("200").Equal(fin.Finalization.FinalAmount))
	// 132 * 0.10 + 80 * 0.15
	assert.True(t, decimal.RequireFromString("25.2").Equal(fin.Finalization.CommissionTotal))
	require.Len(t, fin.Finalization.Breakdown, 2)
	assert.Equal(t, "service", fin.Finalization.Breakdown[0].Kind)

	var again errorBody
	status = do(t, srv, http.MethodPost, "/api/v1/tickets/"+tk.ID.String()+"/finalize", map[string]any{"payment_method": "pix"}, &again)
	assert.Equal(t, http.StatusConflict, status)
	assert.NotEmpty(t, again.Error)

	var commissions []idResponse
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/v1/tickets/"+tk.ID.String()+"/commissions", nil, &commissions))
	assert.Len(t, commissions, 2)

	var row struct {
		Revenue     decimal.Decimal `json:"revenue"`
		TicketCount int64           `json:"ticket_count"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/v1/revenue/today", nil, &row))
	assert.True(t, decimal.RequireFromString("200").Equal(row.Revenue))
	assert.Equal(t, int64(1), row.TicketCount)

	var cl struct {
		VisitCount    int64           `json:"visit_count"`
		LifetimeSpend decimal.Decimal `json:"lifetime_spend"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/v1/clients/"+c.ID.String(), nil, &cl))
	assert.Equal(t, int64(1), cl.VisitCount)
	assert.True(t, decimal.RequireFromString("200").Equal(cl.LifetimeSpend))

	var denied errorBody
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodPost, "/api/v1/maintenance/reverse", map[string]any{}, &denied))

	var sum struct {
		TicketsDeleted int64    `json:"tickets_deleted"`
		Warnings       []string `json:"warnings"`
	}
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/v1/maintenance/reverse", map[string]any{"confirm": true}, &sum))
	assert.Equal(t, int64(1), sum.TicketsDeleted)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/v1/tickets/"+tk.ID.String(), nil, nil))
}

func TestRouter_Validation(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{name: "BadTicketID", method: http.MethodGet, path: "/api/v1/tickets/nope", want: http.StatusBadRequest},
		{name: "UnknownTicket", method: http.MethodGet, path: "/api/v1/tickets/" + uuid.NewString(), want: http.StatusNotFound},
		{name: "MissingPaymentMethod", method: http.MethodPost, path: "/api/v1/tickets/" + uuid.NewString() + "/finalize", body: map[string]any{}, want: http.StatusBadRequest},
		{name: "NegativeDiscount", method: http.MethodPost, path: "/api/v1/tickets/" + uuid.NewString() + "/finalize", body: map[string]any{"payment_method": "pix", "discount": "-1"}, want: http.StatusBadRequest},
		{name: "SubCentDiscount", method: http.MethodPost, path: "/api/v1/tickets/" + uuid.NewString() + "/finalize", body: map[string]any{"payment_method": "pix", "discount": "0.005"}, want: http.StatusBadRequest},
		{name: "FinalizeUnknownTicket", method: http.MethodPost, path: "/api/v1/tickets/" + uuid.NewString() + "/finalize", body: map[string]any{"payment_method": "pix"}, want: http.StatusNotFound},
		{name: "BadDay", method: http.MethodGet, path: "/api/v1/revenue/08-03-2024", want: http.StatusBadRequest},
		{name: "EmptyDay", method: http.MethodGet, path: "/api/v1/revenue/2024-03-08", want: http.StatusOK},
		{name: "UnknownStatus", method: http.MethodPost, path: "/api/v1/maintenance/reverse", body: map[string]any{"confirm": true, "statuses": []string{"closed"}}, want: http.StatusBadRequest},
		{name: "ClientWithoutName", method: http.MethodPost, path: "/api/v1/clients/", body: map[string]any{"phone": "11"}, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, do(t, srv, tt.method, tt.path, tt.body, nil))
		})
	}
}

func TestRouter_Operational(t *testing.T) {
	srv := newServer(t)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodGet, "/healthz", nil, nil))
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/metrics", nil, nil))
}
